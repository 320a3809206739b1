package app

import (
	"github.com/specialistvlad/oconfig/internal/registry"
	"github.com/specialistvlad/oconfig/modules/load"
	"github.com/specialistvlad/oconfig/modules/write_graphite"
	"github.com/specialistvlad/oconfig/modules/write_log"
)

// coreModules is the definitive list of all plugins that are compiled into
// the binary.
var coreModules = []registry.Module{
	&load.Module{},
	&write_graphite.Module{},
	&write_log.Module{},
}
