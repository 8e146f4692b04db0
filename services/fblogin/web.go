package fblogin

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/fbloginbackend/lib/mycontext"
	"github.com/MarcGrol/fbloginbackend/lib/myerrors"
	"github.com/MarcGrol/fbloginbackend/lib/myhttp"
	"github.com/MarcGrol/fbloginbackend/lib/mylog"
	"github.com/MarcGrol/fbloginbackend/lib/mymetrics"
	"github.com/MarcGrol/fbloginbackend/lib/mypublisher"
	"github.com/MarcGrol/fbloginbackend/lib/mypubsub"
	"github.com/MarcGrol/fbloginbackend/lib/mystore"
	"github.com/MarcGrol/fbloginbackend/lib/mytime"
	"github.com/MarcGrol/fbloginbackend/lib/myuuid"
	"github.com/MarcGrol/fbloginbackend/lib/myvault"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbclient"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbevents"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbvault"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/userstore"
)

const (
	loginFailedMessage = "Facebook failed to authenticate your request, please try again later."
)

type webService struct {
	service *service
	logger  mylog.Logger
}

func NewService(config Config, sessionStore mystore.Store[LoginSession], vault myvault.VaultReadWriter[fbvault.Token], users userstore.UserStore,
	nower mytime.Nower, uuider myuuid.UUIDer, fbClient fbclient.FacebookClient, pub mypublisher.Publisher, sub mypubsub.PubSub) *webService {
	return &webService{
		service: newService(config, sessionStore, vault, users, nower, uuider, fbClient, pub, sub),
		logger:  mylog.New("fblogin"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/facebook/admin", s.adminPage()).Methods("GET")

	router.HandleFunc("/facebook/login", s.startPage()).Methods("GET", "POST")
	router.HandleFunc("/facebook/done", s.donePage()).Methods("GET")
	router.HandleFunc("/facebook/link", s.linkPage()).Methods("POST")
	router.HandleFunc("/facebook/extend/{facebookID}", s.extendTokenPage()).Methods("POST")
	router.HandleFunc("/facebook/revoke/{facebookID}", s.revokeTokenPage()).Methods("POST")
	router.HandleFunc("/facebook/event", s.handleEventEnvelope()).Methods("POST")

	err := s.service.CreateTopics(c)
	if err != nil {
		return err
	}

	err = s.service.Subscribe(c)
	if err != nil {
		return err
	}

	return nil
}

//go:embed templates
var templateFolder embed.FS
var (
	adminPageTemplate *template.Template
	errorPageTemplate *template.Template
)

func init() {
	adminPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/admin.html"))
	errorPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/error.html"))
}

func (s *webService) adminPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		statuses, err := s.service.getStatus(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = adminPageTemplate.Execute(w, statuses)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) startPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		req := StartRequest{}
		err = formcodec.NewDecoder().Decode(&req, r.Form)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		authenticationURL, err := s.service.start(c, req.ReturnURL, req.Scopes, myhttp.HostnameWithScheme(r))
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, authenticationURL, http.StatusSeeOther)
	}
}

func (s *webService) donePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		errorCode := r.URL.Query().Get("error")
		if errorCode != "" {
			// user cancelled or facebook refused
			errorDescription := r.URL.Query().Get("error_description")
			s.writeLoginFailed(c, w, myerrors.NewInvalidInputError(fmt.Errorf("%s (%s)", errorCode, errorDescription)))
			return
		}

		sessionUID := r.URL.Query().Get("state")
		if sessionUID == "" {
			s.writeLoginFailed(c, w, myerrors.NewInvalidInputError(fmt.Errorf("missing state")))
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			s.writeLoginFailed(c, w, myerrors.NewInvalidInputError(fmt.Errorf("missing code")))
			return
		}

		outcomeURL, err := s.service.done(c, sessionUID, code, myhttp.HostnameWithScheme(r))
		if err != nil {
			s.writeLoginFailed(c, w, err)
			return
		}

		http.Redirect(w, r, outcomeURL, http.StatusSeeOther)
	}
}

func (s *webService) writeLoginFailed(c context.Context, w http.ResponseWriter, err error) {
	httpStatus := myerrors.GetHTTPStatus(err)
	mymetrics.LoginFailures.WithLabelValues(strconv.Itoa(httpStatus)).Inc()

	s.logger.Log(c, "", mylog.SeverityError, "Facebook login failed: %s", err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(httpStatus)
	err = errorPageTemplate.Execute(w, struct {
		Message string
	}{
		Message: loginFailedMessage,
	})
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityError, "Error rendering error page: %s", err)
	}
}

func (s *webService) linkPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		req := LinkRequest{}
		err = formcodec.NewDecoder().Decode(&req, r.Form)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		err = s.service.linkUser(c, req.Email)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Linked user %s to facebook login", req.Email),
		})
	}
}

func (s *webService) extendTokenPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		facebookID := mux.Vars(r)["facebookID"]

		_, err := s.service.extendToken(c, facebookID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/facebook/admin", http.StatusSeeOther)
	}
}

func (s *webService) revokeTokenPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		facebookID := mux.Vars(r)["facebookID"]

		err := s.service.revokeToken(c, facebookID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/facebook/admin", http.StatusSeeOther)
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := fbevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}
