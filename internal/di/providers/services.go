package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/londonmakers/makers-server/internal/auth"
	"github.com/londonmakers/makers-server/internal/logger"
	"github.com/londonmakers/makers-server/internal/media/images"
	"github.com/londonmakers/makers-server/internal/service"
)

// sessionSweepInterval is how often expired sessions are cleaned up.
const sessionSweepInterval = time.Hour

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// SessionSweeper owns the background job that removes expired sessions.
type SessionSweeper struct {
	stop chan struct{}
}

// Shutdown implements do.Shutdownable.
func (s *SessionSweeper) Shutdown() error {
	close(s.stop)
	return nil
}

// ProvideSessionSweeper starts the periodic expired-session cleanup job.
func ProvideSessionSweeper(i do.Injector) (*SessionSweeper, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	sweeper := &SessionSweeper{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				count, err := sessions.DeleteExpiredSessions(context.Background())
				if err != nil {
					log.Error("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Removed expired sessions", "count", count)
				}
			case <-sweeper.stop:
				return
			}
		}
	}()

	return sweeper, nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideUserService provides the user profile and bookmark service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvideArtistService provides the maker listing service.
func ProvideArtistService(i do.Injector) (*service.ArtistService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewArtistService(storeHandle.Store, processor, log.Logger), nil
}
