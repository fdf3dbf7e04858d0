package system

import (
	"math/rand"

	"github.com/milk9111/encounter/ecs"
	"github.com/milk9111/encounter/ecs/component"
)

// CameraSystem follows the player and applies pending shake requests.
type CameraSystem struct {
	rng *rand.Rand
}

func NewCameraSystem(seed int64) *CameraSystem {
	return &CameraSystem{rng: rand.New(rand.NewSource(seed))}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		camEntity = ecs.CreateEntity(w)
		_ = ecs.Add(w, camEntity, component.CameraComponent.Kind(), &component.Camera{})
	}
	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())

	if player, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			cam.X += (t.X - cam.X) * 0.1
			cam.Y += (t.Y - cam.Y) * 0.1
		}
	}

	ecs.ForEach(w, component.CameraShakeRequestComponent.Kind(), func(e ecs.Entity, req *component.CameraShakeRequest) {
		if req.Frames >= cam.ShakeFrames || req.Intensity > cam.ShakeIntensity {
			cam.ShakeFrames = max(cam.ShakeFrames, req.Frames)
			cam.ShakeIntensity = max(cam.ShakeIntensity, req.Intensity)
		}
		ecs.Remove(w, e, component.CameraShakeRequestComponent.Kind())
	})

	if cam.ShakeFrames <= 0 {
		cam.OffsetX, cam.OffsetY = 0, 0
		cam.ShakeIntensity = 0
		return
	}
	cam.ShakeFrames--
	cam.OffsetX = (cs.rng.Float64()*2 - 1) * cam.ShakeIntensity
	cam.OffsetY = (cs.rng.Float64()*2 - 1) * cam.ShakeIntensity
}
