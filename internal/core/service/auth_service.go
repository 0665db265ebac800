package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/metrics"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
)

const (
	MsgNotAdmin         = "¡Hola! Este panel es solo para nuestros administradores. Gracias por tu visita."
	MsgServerTrouble    = "Esta cuenta no existe o hay un problema con el servidor. Por favor, intenta de nuevo más tarde."
	MsgWrongCredentials = "¡Ups! El email o la contraseña no son correctos. ¿Probamos de nuevo?"
	MsgUnexpected       = "Ocurrió un error inesperado. Intenta de nuevo."
	MsgMissingFields    = "Ingresa tu email y tu contraseña."
)

// SessionWriter is the part of the session handle the login flow needs.
type SessionWriter interface {
	Login(ctx context.Context, s domain.Session) error
	Logout(ctx context.Context) error
}

// LoginResult tells the login page what to do next. An empty Redirect means
// staying on the login page and showing Message.
type LoginResult struct {
	Redirect string
	Message  string
}

// AuthService runs the dashboard login flow against the remote API.
type AuthService struct {
	auth ports.AuthClient
	log  zerolog.Logger
}

func NewAuthService(auth ports.AuthClient, log zerolog.Logger) *AuthService {
	return &AuthService{auth: auth, log: log.With().Str("component", "auth").Logger()}
}

// SignIn authenticates email/password, persists the session through w and
// lets only administrators in. Any other role is logged out straight away.
func (s *AuthService) SignIn(ctx context.Context, w SessionWriter, email, password string) LoginResult {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return LoginResult{Message: MsgMissingFields}
	}

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.log.Info().Err(err).Str("email", email).Msg("login rejected")
		metrics.LoginAttemptsTotal.WithLabelValues(failureLabel(err)).Inc()
		return LoginResult{Message: LoginMessage(err)}
	}

	sess := res.Session()
	if err := w.Login(ctx, sess); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("persist session failed")
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return LoginResult{Message: MsgUnexpected}
	}

	if !sess.IsAdmin() {
		if err := w.Logout(ctx); err != nil {
			s.log.Warn().Err(err).Msg("logout of non-admin session failed")
		}
		metrics.LoginAttemptsTotal.WithLabelValues("not_admin").Inc()
		return LoginResult{Message: MsgNotAdmin}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("admin").Inc()
	return LoginResult{Redirect: domain.AdminHome}
}

// LoginMessage maps a login failure to the text shown under the form.
func LoginMessage(err error) string {
	var f *domain.Failure
	if !errors.As(err, &f) || f.Kind == domain.FailureNetwork {
		return MsgUnexpected
	}
	if f.Kind == domain.FailureRejected && f.Status == http.StatusInternalServerError {
		return MsgServerTrouble
	}
	if f.Message != "" {
		return f.Message
	}
	return MsgWrongCredentials
}
