package application

import (
	"bytes"
	"os"
	"testing"

	"github.com/OliveiraNt/kafkaman/internal/utils"
	chlog "github.com/charmbracelet/log"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	goleak.VerifyTestMain(m)
}

// captureLog sends the global logger to a buffer at debug level for the
// duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := utils.Logger.GetLevel()
	utils.Logger.SetOutput(&buf)
	utils.Logger.SetLevel(chlog.DebugLevel)
	t.Cleanup(func() {
		utils.Logger.SetOutput(os.Stderr)
		utils.Logger.SetLevel(prev)
	})
	return &buf
}
