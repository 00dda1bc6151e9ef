package level

import (
	"github.com/vovakirdan/beatstep/internal/entity"
	"github.com/vovakirdan/beatstep/internal/registry"
)

func init() {
	registry.Register(entity.KindSnail, registry.RoleEnemy, "Snail",
		func(env *entity.Env, s entity.Spawn, p *entity.Player) entity.Entity {
			return entity.NewSnail(env, s, p)
		})
	registry.Register(entity.KindDrummy, registry.RoleEnemy, "Drummy",
		func(env *entity.Env, s entity.Spawn, p *entity.Player) entity.Entity {
			return entity.NewDrummy(env, s, p)
		})
	registry.Register(entity.KindSaw, registry.RoleEnemy, "Saw",
		func(env *entity.Env, s entity.Spawn, p *entity.Player) entity.Entity {
			return entity.NewSaw(env, s, p)
		})
	registry.Register(entity.KindExit, registry.RoleObject, "Exit sign",
		func(env *entity.Env, s entity.Spawn, p *entity.Player) entity.Entity {
			return entity.NewExitSign(env, s, p)
		})
	registry.Register(entity.KindOneWay, registry.RoleObject, "One-way platform",
		func(env *entity.Env, s entity.Spawn, p *entity.Player) entity.Entity {
			return entity.NewOneWayPlatform(env, s, p)
		})
	registry.Register(entity.KindBridge, registry.RoleObject, "Bridge",
		func(env *entity.Env, s entity.Spawn, p *entity.Player) entity.Entity {
			return entity.NewBridge(env, s, p)
		})
}
