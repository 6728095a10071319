package services

import (
	portsrepo "github.com/SscSPs/pm_dashboard_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pm_dashboard_app/internal/core/ports/services"
	"github.com/SscSPs/pm_dashboard_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Member: NewMemberService(repos.MemberRepo, WithMinPasswordLength(cfg.MinPasswordLength)),
		Token:  NewTokenService(cfg),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.MemberSvcFacade = (*memberService)(nil)
	_ portssvc.TokenSvcFacade  = (*tokenService)(nil)
)
