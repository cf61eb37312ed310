package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
)

// RepoContainer wires every pgx repository over one shared pool.
type RepoContainer struct {
	ledger        portsrepo.LedgerRepositoryFacade
	subjects      portsrepo.SubjectRepositoryFacade
	posts         portsrepo.PostRepositoryFacade
	connections   portsrepo.ConnectionRepositoryFacade
	topups        portsrepo.TopupRepositoryFacade
	users         portsrepo.UserRepositoryFacade
	notifications portsrepo.NotificationRepositoryFacade
	audit         portsrepo.AuditRepositoryFacade
}

// NewRepositoryProvider constructs all repositories over the given pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	users := newPgxUserRepository(pool)
	posts := newPgxPostRepository(pool)
	connections := newPgxConnectionRepository(pool)
	topups := newPgxTopupRepository(pool)

	return &RepoContainer{
		ledger:        newPgxLedgerRepository(pool),
		subjects:      newPgxSubjectRepository(pool, users, posts, connections, topups),
		posts:         posts,
		connections:   connections,
		topups:        topups,
		users:         users,
		notifications: newPgxNotificationRepository(pool),
		audit:         newPgxAuditRepository(pool),
	}
}

var _ portsrepo.RepositoryProvider = (*RepoContainer)(nil)

func (c *RepoContainer) Ledger() portsrepo.LedgerRepositoryFacade              { return c.ledger }
func (c *RepoContainer) Subjects() portsrepo.SubjectRepositoryFacade           { return c.subjects }
func (c *RepoContainer) Posts() portsrepo.PostRepositoryFacade                 { return c.posts }
func (c *RepoContainer) Connections() portsrepo.ConnectionRepositoryFacade     { return c.connections }
func (c *RepoContainer) Topups() portsrepo.TopupRepositoryFacade               { return c.topups }
func (c *RepoContainer) Users() portsrepo.UserRepositoryFacade                 { return c.users }
func (c *RepoContainer) Notifications() portsrepo.NotificationRepositoryFacade { return c.notifications }
func (c *RepoContainer) Audit() portsrepo.AuditRepositoryFacade                { return c.audit }
