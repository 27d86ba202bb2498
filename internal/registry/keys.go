package registry

import (
	"github.com/nfrund/hostkit/internal/memhost"
	"github.com/nfrund/hostkit/internal/pubsub"
	"github.com/nfrund/hostkit/internal/script"
	"github.com/nfrund/hostkit/internal/support"
)

// Service keys for the shared runtime. Using typed keys prevents both typos
// and type mismatches at the call site.
var (
	BusKey          = Key[*pubsub.WatermillBridge]("pubsub.bus")
	WorldKey        = Key[*memhost.World]("memhost.world")
	SupportKey      = Key[*support.Support]("support.facade")
	ScriptEngineKey = Key[*script.Engine]("script.engine")
)
