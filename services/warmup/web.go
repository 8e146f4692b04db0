package warmup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/fbloginbackend/lib/mycontext"
	"github.com/MarcGrol/fbloginbackend/lib/myerrors"
	"github.com/MarcGrol/fbloginbackend/lib/myhttp"
	"github.com/MarcGrol/fbloginbackend/lib/mylog"
	"github.com/MarcGrol/fbloginbackend/lib/myvault"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbvault"
)

type Pinger interface {
	Ping(c context.Context) error
}

type webService struct {
	logger mylog.Logger
	users  Pinger
	vault  myvault.VaultReader[fbvault.Token]
}

// NewService touches the user database and the token vault so the first real login does not pay for the connections.
func NewService(users Pinger, vault myvault.VaultReader[fbvault.Token]) *webService {
	return &webService{
		logger: mylog.New("warmup"),
		users:  users,
		vault:  vault,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.users.Ping(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(fmt.Errorf("user database not reachable: %s", err)))
			return
		}

		_, _, err = s.vault.Get(c, fbvault.TokenUID("warmup"))
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewUnavailableError(fmt.Errorf("vault not reachable: %s", err)))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
