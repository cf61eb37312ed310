package services

import (
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/pkg/config"
)

// ServiceContainer wires all services over one repository provider.
type ServiceContainer struct {
	coins         portssvc.CoinSvcFacade
	users         portssvc.UserSvcFacade
	posts         portssvc.PostSvcFacade
	connections   portssvc.ConnectionSvcFacade
	topups        portssvc.TopupSvcFacade
	workflow      portssvc.WorkflowSvcFacade
	notifications portssvc.NotificationSvcFacade
	audit         portssvc.AuditSvcFacade
	reconcile     portssvc.ReconcileSvcFacade
}

// NewServiceContainer constructs the full service graph. publisher may be nil
// when no event brokers are configured.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config, publisher portssvc.EventPublisher) *ServiceContainer {
	notifier := NewNotifierService(repos.Notifications(), publisher)
	audit := NewAuditService(repos.Audit())
	refunds := RefundPolicy{AllowRefunds: cfg.AllowRefunds}
	gate := NewGateService(repos.Ledger(), repos.Subjects(), repos.Users())

	return &ServiceContainer{
		coins:         NewCoinService(repos.Ledger(), notifier, audit),
		users:         NewUserService(repos.Users(), repos.Ledger(), notifier),
		posts:         NewPostService(gate, repos.Posts(), notifier, cfg.CostPost),
		connections:   NewConnectionService(gate, repos.Connections(), repos.Subjects(), repos.Posts(), repos.Users(), refunds, notifier, audit, cfg.CostConnect),
		topups:        NewTopupService(repos.Topups(), repos.Subjects(), repos.Users(), notifier),
		workflow:      NewWorkflowService(repos.Subjects(), refunds, notifier, audit, cfg.RequireTargetAccept),
		notifications: notifier,
		audit:         audit,
		reconcile:     NewReconcileService(repos.Ledger()),
	}
}

var _ portssvc.ServiceProvider = (*ServiceContainer)(nil)

func (c *ServiceContainer) Coins() portssvc.CoinSvcFacade                 { return c.coins }
func (c *ServiceContainer) Users() portssvc.UserSvcFacade                 { return c.users }
func (c *ServiceContainer) Posts() portssvc.PostSvcFacade                 { return c.posts }
func (c *ServiceContainer) Connections() portssvc.ConnectionSvcFacade     { return c.connections }
func (c *ServiceContainer) Topups() portssvc.TopupSvcFacade               { return c.topups }
func (c *ServiceContainer) Workflow() portssvc.WorkflowSvcFacade          { return c.workflow }
func (c *ServiceContainer) Notifications() portssvc.NotificationSvcFacade { return c.notifications }
func (c *ServiceContainer) Audit() portssvc.AuditSvcFacade                { return c.audit }
func (c *ServiceContainer) Reconcile() portssvc.ReconcileSvcFacade        { return c.reconcile }
