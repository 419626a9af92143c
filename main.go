package LagoonDB

import (
	"github.com/harborne/LagoonDB/core"
	"github.com/harborne/LagoonDB/db"
	"github.com/harborne/LagoonDB/ps"
)

type Instance struct {
	Persistence *ps.Persistence
}

func Open(persistence *ps.Persistence) *Instance {
	return &Instance{
		Persistence: persistence,
	}
}

func (instance *Instance) Engine(identity core.Identity) *db.Engine {
	return db.NewEngine(instance.Persistence, identity)
}
