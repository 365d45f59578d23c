// Package app provides application-level wiring and dependency injection
// for the membership dashboard service.
package app

import (
	"database/sql"
	"log/slog"

	"orgdesk/internal/config"
	"orgdesk/internal/db/repository"
	"orgdesk/internal/domain"
	"orgdesk/internal/notify"
	"orgdesk/internal/service"
	"orgdesk/internal/storage"
)

// Deps holds the external dependencies main() must provide: database
// handles, config, and the root logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers the API handler and the CLI need.
type Services struct {
	Member  *service.MemberService
	Deposit *service.DepositService
	Invite  *service.InviteService
}

// App holds the fully-wired application, plus the member repository the
// auth middleware needs for principal resolution.
type App struct {
	Services   Services
	MemberRepo *repository.MemberRepo
}

// New wires repositories and services from the provided deps.
func New(deps Deps) *App {
	memberRepo := repository.NewMemberRepo(deps.WriteDB, deps.ReadDB)
	profileRepo := repository.NewProfileRepo(deps.WriteDB, deps.ReadDB)
	depositRepo := repository.NewDepositRepo(deps.WriteDB, deps.ReadDB)
	invitationRepo := repository.NewInvitationRepo(deps.WriteDB, deps.ReadDB)

	var receipts domain.ReceiptStore = storage.NoopReceiptStore{}
	if deps.Cfg.S3 != nil {
		receipts = storage.NewS3ReceiptStore(deps.Cfg.S3)
	}

	notifier := notify.NewLogNotifier(deps.Logger.With("component", "notify"))

	return &App{
		Services: Services{
			Member: service.NewMemberService(memberRepo, profileRepo,
				deps.Logger.With("component", "members")),
			Deposit: service.NewDepositService(depositRepo, memberRepo,
				receipts, notifier, deps.Logger.With("component", "deposits")),
			Invite: service.NewInviteService(invitationRepo, notifier,
				deps.Logger.With("component", "invites")),
		},
		MemberRepo: memberRepo,
	}
}
