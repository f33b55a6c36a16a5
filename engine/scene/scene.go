package scene

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/rig-go/engine/camera"
	"github.com/Carmen-Shannon/rig-go/engine/model"
	"github.com/Carmen-Shannon/rig-go/engine/renderer"
)

// Scene manages a registry of Models together with a Camera and Renderer.
// Update advances every model's animation state in parallel and uploads the
// resulting uniform and bone palette data; Draw submits one draw call per
// model. Scenes can be hot-swapped via the Active flag to switch between
// different views or levels. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Count returns the number of models in the scene's registry.
	//
	// Returns:
	//   - int: count of registered models
	Count() int

	// Add registers a model with the scene and initializes its GPU resources
	// through the scene's renderer (vertex/index buffers, uniform buffer, and
	// bone palette for skinned models).
	//
	// Parameters:
	//   - m: the model to add
	//
	// Returns:
	//   - uint64: the assigned model ID
	//   - error: error if GPU initialization fails
	Add(m model.Model) (uint64, error)

	// Get retrieves a registered model by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the model's unique ID
	//
	// Returns:
	//   - model.Model: the model or nil
	Get(id uint64) model.Model

	// Remove removes a model from the registry by ID.
	// Does not release the model's GPU resources.
	//
	// Parameters:
	//   - id: the model's unique ID
	Remove(id uint64)

	// Models returns a snapshot of all registered models in registration order.
	// The returned slice is safe to iterate while the scene is mutated.
	//
	// Returns:
	//   - []model.Model: snapshot of registered models
	Models() []model.Model

	// Clear removes all models from the scene.
	// Does not release GPU resources.
	Clear()

	// Update advances every registered model's animation state by deltaTime and
	// uploads camera and per-model GPU data. Pose evaluation is CPU-only and is
	// fanned out across the scene's worker pool; uploads happen serially after
	// all workers finish.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// Draw renders all registered models for the current frame.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: the first draw error encountered
	Draw() error
}

// scene is the implementation of the Scene interface.
type scene struct {
	// mu guards all mutable scene state.
	mu *sync.RWMutex

	// name is the scene's identifier.
	name string

	// active marks whether the scene is rendered by the engine loop.
	active bool

	// cam is the scene's camera.
	cam camera.Camera

	// r is the renderer used for GPU initialization, uploads, and draws.
	r renderer.Renderer

	// registry maps assigned IDs to registered models.
	registry map[uint64]model.Model

	// order holds registration order so draws are deterministic across frames.
	order []uint64

	// nextID is the next ID handed out by Add.
	nextID uint64

	// updatePool manages a bounded set of reusable goroutines for the parallel
	// pose evaluation phase of Update. Workers persist across frames, avoiding
	// per-frame goroutine spawn/teardown overhead.
	updatePool worker.DynamicWorkerPool

	// updateWorkers is stored so the configured count can be inspected.
	updateWorkers int
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera and renderer. Both are
// required and NewScene panics if either is nil. The camera's GPU resources
// are initialized immediately so Update can upload view matrices from the
// first frame.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:            &sync.RWMutex{},
		name:          name,
		active:        false,
		cam:           cam,
		r:             r,
		registry:      make(map[uint64]model.Model),
		nextID:        1,
		updateWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithUpdateWorkers can override the default.
	// Queue size of 256 accommodates typical model counts with headroom.
	s.updatePool = worker.NewDynamicWorkerPool(s.updateWorkers, 256, 1*time.Second)

	if err := r.InitCamera(cam); err != nil {
		panic(fmt.Sprintf("scene: failed to init camera: %v", err))
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(m model.Model) (uint64, error) {
	if m == nil {
		return 0, fmt.Errorf("scene %q: cannot add a nil model", s.Name())
	}

	if err := s.Renderer().InitModel(m); err != nil {
		return 0, fmt.Errorf("scene %q: failed to init model %q: %w", s.Name(), m.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.registry[id] = m
	s.order = append(s.order, id)
	return id, nil
}

func (s *scene) Get(id uint64) model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registry[id]; !ok {
		return
	}
	delete(s.registry, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *scene) Models() []model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]model.Model)
	s.order = s.order[:0]
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	models := s.snapshotLocked()
	cam := s.cam
	r := s.r
	s.mu.RUnlock()

	// Phase 1: parallel model updates. Each model's Update is CPU-only
	// (transform propagation onto meshes, frame advancement, pose blending,
	// matrix composition), so the work is fanned out to the pool. Static and
	// idle models tick too: their mesh transforms must track the model
	// transform even with no clip playing. A WaitGroup provides per-frame
	// barrier sync since pool.Wait() blocks until workers idle-exit which is
	// unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	for i, m := range models {
		wg.Add(1)
		mCap := m // capture for closure
		s.updatePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				mCap.Update(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Phase 2: serial uploads through the shared write queue.
	r.UploadCamera(cam)
	for _, m := range models {
		r.UploadModel(m)
	}
}

func (s *scene) Draw() error {
	s.mu.RLock()
	models := s.snapshotLocked()
	cam := s.cam
	r := s.r
	s.mu.RUnlock()

	for _, m := range models {
		if err := r.DrawModel(m, cam); err != nil {
			return fmt.Errorf("scene %q: %w", s.Name(), err)
		}
	}
	return nil
}

// snapshotLocked returns the registered models in registration order.
// Caller must hold mu.
func (s *scene) snapshotLocked() []model.Model {
	models := make([]model.Model, 0, len(s.order))
	for _, id := range s.order {
		if m, ok := s.registry[id]; ok {
			models = append(models, m)
		}
	}
	return models
}
