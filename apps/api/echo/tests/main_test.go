package tests

import (
	"os"
	"testing"

	. "github.com/tmukandila/ratiba/apps/api/echo"
	"github.com/tmukandila/ratiba/core/slot"
	"github.com/tmukandila/ratiba/core/user"
	emailsvc "github.com/tmukandila/ratiba/services/email"
	inmemdb "github.com/tmukandila/ratiba/storage/database/inmem"
)

var (
	app     Server
	usrRepo user.Repository
	usrSvc  *user.Service
	store   *fakeSlotClient

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	// set up repos
	usrRepo = inmemdb.NewUserRepository(inmemdb.NewDB())

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc = user.NewService(usrRepo, mailSvc)
	store = newFakeSlotClient()
	slotSvc := slot.NewService(store, usrSvc, mailSvc)

	// set up server
	app = NewServer(
		&Options{
			DisableReqLogs: true,
			UserSvc:        usrSvc,
			SlotSvc:        slotSvc,
			Logger:         nopLogger{},
		},
	)

	os.Exit(m.Run())
}
