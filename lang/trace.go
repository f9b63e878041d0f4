package lang

import (
	"strings"

	"github.com/tliron/commonlog"
)

// LogTracer emits trace records through commonlog. The driver installs
// one when tracing is toggled on; tests use their own recording tracer.
type LogTracer struct {
	log commonlog.Logger
}

// NewLogTracer returns a tracer logging under the "skein.vm" name.
func NewLogTracer() *LogTracer {
	return &LogTracer{log: commonlog.GetLogger("skein.vm")}
}

func (t *LogTracer) Step(pos, depth int, names []string) {
	t.log.Infof("run pos=%d stack=%d vars=%s", pos, depth, strings.Join(names, ","))
}

func (t *LogTracer) Return(pos, depth int, names []string) {
	t.log.Infof("return pos=%d stack=%d vars=%s", pos, depth, strings.Join(names, ","))
}
