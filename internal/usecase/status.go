package usecase

import "github.com/rsmt/agentgate/internal/domain"

// StatusUseCase reports a fresh service-status snapshot on every call.
type StatusUseCase struct {
	serviceName      string
	apiKeyConfigured bool
	killSwitch       KillSwitch
}

// NewStatusUseCase creates a new StatusUseCase.
func NewStatusUseCase(serviceName string, apiKeyConfigured bool, killSwitch KillSwitch) *StatusUseCase {
	return &StatusUseCase{
		serviceName:      serviceName,
		apiKeyConfigured: apiKeyConfigured,
		killSwitch:       killSwitch,
	}
}

// Execute returns the current service status. It always succeeds.
func (uc *StatusUseCase) Execute() domain.ServiceStatus {
	return domain.ServiceStatus{
		Service:          uc.serviceName,
		KillSwitch:       uc.killSwitch.Active(),
		APIKeyConfigured: uc.apiKeyConfigured,
	}
}
