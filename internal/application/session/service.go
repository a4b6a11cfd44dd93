// Package session administra la sesión del dashboard: login contra el backend,
// sello de las cookies, validación del token y cierre de sesión (normal o por 401).
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/domain/access"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	pkgjwt "github.com/jhoicas/pos-dashboard/pkg/jwt"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

var _ access.TokenValidator = (*Service)(nil)

// AuthGateway contrato mínimo con los endpoints de autenticación del backend.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResult, error)
	ValidateToken(ctx context.Context, token string) error
	Logout(ctx context.Context, token string) error
}

// SealConfig firma de las cookies de sesión. Secret vacío = sin sello.
type SealConfig struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// Service servicio de sesión inyectado en los handlers (sin estado global).
type Service struct {
	gw        AuthGateway
	seal      SealConfig
	revoked   *revocationSet
	log       *logger.Logger
	mu        sync.RWMutex
	onExpired []func(fingerprint string)
}

// NewService construye el servicio. revokeTTL es cuánto se recuerda un token invalidado.
func NewService(gw AuthGateway, seal SealConfig, revokeTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		gw:      gw,
		seal:    seal,
		revoked: newRevocationSet(revokeTTL),
		log:     log.Component("session"),
	}
}

// OnExpired registra un observador del evento "sesión expirada" (se emite una vez por token).
func (s *Service) OnExpired(fn func(fingerprint string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = append(s.onExpired, fn)
}

// SealEnabled indica si se emite y exige la cookie sessionSeal.
func (s *Service) SealEnabled() bool {
	return s.seal.Secret != ""
}

// Login autentica contra el backend y construye la sesión.
func (s *Service) Login(ctx context.Context, in dto.LoginRequest) (*entity.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son requeridos", domain.ErrInvalidInput)
	}
	res, err := s.gw.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	sess := &entity.Session{Token: res.Token, User: res.User, GrantedMenus: res.GrantedMenus}
	if sess.GrantedMenus == nil {
		sess.GrantedMenus = []string{}
	}
	s.log.Session(sess.Token).Info().
		Int64("user_id", sess.User.ID).
		Int("granted_menus", len(sess.GrantedMenus)).
		Msg("login")
	return sess, nil
}

// Seal firma usuario + menús para detectar cookies alteradas. "" si no hay secreto.
func (s *Service) Seal(sess *entity.Session) (string, error) {
	if !s.SealEnabled() {
		return "", nil
	}
	return pkgjwt.Generate(s.seal.Secret, fmt.Sprint(sess.User.ID), sess.GrantedMenus, s.seal.Issuer, s.seal.ExpMinutes)
}

// VerifySeal comprueba el sello de la sesión. Sin secreto configurado siempre es válido.
func (s *Service) VerifySeal(seal string, sess *entity.Session) error {
	if !s.SealEnabled() {
		return nil
	}
	if seal == "" {
		return errors.New("session: sello ausente")
	}
	return pkgjwt.Verify(s.seal.Secret, seal, fmt.Sprint(sess.User.ID), sess.GrantedMenus)
}

// Describe vista de la sesión para la UI (nunca incluye el token).
// Es una lectura pura: dos llamadas sin login/logout intermedio devuelven lo mismo.
func (s *Service) Describe(sess *entity.Session) dto.SessionResponse {
	if sess == nil || sess.Token == "" {
		return dto.SessionResponse{GrantedMenus: []string{}, Menus: []entity.MenuItem{}}
	}
	profile := sess.Profile()
	home, _ := access.FirstGranted(sess.GrantedMenus)
	return dto.SessionResponse{
		Authenticated: true,
		User:          &profile,
		GrantedMenus:  sess.GrantedMenus,
		Menus:         entity.VisibleMenus(sess.GrantedMenus),
		Home:          home,
	}
}

// ValidateToken valida el token contra el backend; los tokens ya invalidados se rechazan
// sin consultar al backend.
func (s *Service) ValidateToken(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	if s.revoked.Contains(token) {
		return domain.ErrUnauthorized
	}
	return s.gw.ValidateToken(ctx, token)
}

// IsRevoked indica si el token fue invalidado por logout o por un 401.
func (s *Service) IsRevoked(token string) bool {
	return s.revoked.Contains(token)
}

// Logout invalida la sesión remota (best-effort: el error solo se registra) y marca el
// token como revocado. El llamador siempre debe limpiar las cookies.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.gw.Logout(ctx, token); err != nil {
		s.log.Session(token).Warn().Err(err).Msg("logout remoto falló; se limpia la sesión local igualmente")
	}
	s.revoked.Add(token)
}

// OnUnauthorized procesa un 401 del backend. Devuelve true solo la primera vez para
// cada token, aunque lleguen varios 401 concurrentes.
func (s *Service) OnUnauthorized(token string) bool {
	if token == "" || !s.revoked.Add(token) {
		return false
	}
	fp := logger.Fingerprint(token)
	s.log.Session(token).Warn().Msg("sesión expirada")

	s.mu.RLock()
	observers := append([]func(string){}, s.onExpired...)
	s.mu.RUnlock()
	for _, fn := range observers {
		fn(fp)
	}
	return true
}
