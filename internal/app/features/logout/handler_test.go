package logout

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.uber.org/zap"
)

func TestHandleLogout_ExpiresCookie(t *testing.T) {
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("", "casadefe-test", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	h := NewHandler(sm, logger)

	rec := testutil.NewRecorder()
	h.HandleLogout(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/logout", testutil.LeaderUser()))
	rec.AssertStatus(t, http.StatusNoContent)

	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "casadefe-test=") {
		t.Fatalf("Set-Cookie: got %q, want the session cookie", cookie)
	}
	if !strings.Contains(cookie, "Max-Age=0") {
		t.Errorf("Set-Cookie: got %q, want Max-Age=0", cookie)
	}
}
