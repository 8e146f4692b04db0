package warmup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/fbloginbackend/lib/myvault"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbvault"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(c context.Context) error {
	return p.err
}

func TestWarmup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("All backends reachable", func(t *testing.T) {
		vault := myvault.NewMockVaultReadWriter[fbvault.Token](ctrl)
		vault.EXPECT().Get(gomock.Any(), "facebook_access_token_warmup").Return(fbvault.Token{}, false, nil)

		response := doWarmup(t, NewService(fakePinger{}, vault))

		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "Successfully processed warmup request")
	})

	t.Run("User database down", func(t *testing.T) {
		vault := myvault.NewMockVaultReadWriter[fbvault.Token](ctrl)

		response := doWarmup(t, NewService(fakePinger{err: fmt.Errorf("database is locked")}, vault))

		assert.Equal(t, 503, response.Code)
	})

	t.Run("Vault down", func(t *testing.T) {
		vault := myvault.NewMockVaultReadWriter[fbvault.Token](ctrl)
		vault.EXPECT().Get(gomock.Any(), "facebook_access_token_warmup").Return(fbvault.Token{}, false, fmt.Errorf("connection refused"))

		response := doWarmup(t, NewService(fakePinger{}, vault))

		assert.Equal(t, 503, response.Code)
	})
}

func doWarmup(t *testing.T, sut *webService) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	sut.RegisterEndpoints(context.TODO(), router)

	request, err := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
	assert.NoError(t, err)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}
