package vkrenderer

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender"
	"github.com/celer/dualrender/internal/registry"
	"github.com/celer/dualrender/internal/rlog"
	"github.com/celer/dualrender/vkg"
)

var defaultClearColor = [4]float32{0, 0, 0.5, 1}

// Renderer is the Vulkan implementation of dualrender.Renderer.
type Renderer struct {
	cfg    dualrender.Config
	window *glfw.Window
	camera *dualrender.Camera
	gpu    *gpuContext

	// mainDeletion lives as long as the renderer, swapchainDeletion only
	// until the next swapchain recreation
	mainDeletion      *vkg.DeletionQueue
	swapchainDeletion *vkg.DeletionQueue

	sc             swapchainSet
	renderPass     *vkg.RenderPass
	cameraLayout   *vkg.DescriptorSetLayout
	textureLayout  *vkg.DescriptorSetLayout
	descriptorPool *vkg.DescriptorPool
	frames         *vkg.FrameRing
	upload         *vkg.UploadContext
	pipes          *pipelines
	loop           frameLoop

	clearColor [4]float32
	cameraData cameraData

	models   *registry.Registry[dualrender.Model, *mesh]
	textures *registry.Registry[dualrender.TextureArray, *texture]

	closed bool
}

var _ dualrender.Renderer = (*Renderer)(nil)

// New opens a window and brings up Vulkan on it. Errors are marked
// dualrender.ErrInit and leave nothing behind. The calling goroutine must
// be locked to the main OS thread.
func New(cfg *dualrender.Config) (_ *Renderer, err error) {
	if cfg == nil {
		cfg = dualrender.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Mark(err, dualrender.ErrInit)
	}

	r := &Renderer{
		cfg:               *cfg,
		camera:            cfg.NewCamera(),
		mainDeletion:      vkg.NewDeletionQueue("main"),
		swapchainDeletion: vkg.NewDeletionQueue("swapchain"),
		clearColor:        defaultClearColor,
		models:            registry.New[dualrender.Model, *mesh](),
		textures:          registry.New[dualrender.TextureArray, *texture](),
	}
	r.loop.ops = r

	defer func() {
		if err != nil {
			r.swapchainDeletion.Flush()
			r.mainDeletion.Flush()
			err = errors.Mark(err, dualrender.ErrInit)
		}
	}()

	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}
	r.mainDeletion.PushFunc("glfw", glfw.Terminate)

	if !glfw.VulkanSupported() {
		return nil, errors.New("glfw reports no Vulkan loader")
	}

	r.window, err = createWindow(cfg.Window)
	if err != nil {
		return nil, err
	}
	r.mainDeletion.PushFunc("window", r.window.Destroy)
	r.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		r.loop.resized = true
	})

	r.gpu, err = bootstrap(r.window, cfg.AppName, cfg.Vulkan, r.mainDeletion)
	if err != nil {
		return nil, errors.Wrap(err, "vulkan bootstrap")
	}

	r.upload, err = vkg.NewUploadContext(r.gpu.device, r.gpu.queue, r.mainDeletion, cfg.Vulkan.UploadTimeout.Std())
	if err != nil {
		return nil, err
	}

	if err := r.createDescriptors(r.mainDeletion); err != nil {
		return nil, err
	}

	r.frames, err = vkg.NewFrameRing(r.gpu.device, r.gpu.family, r.gpu.allocator,
		cameraDataSize, r.cameraLayout, r.descriptorPool, r.mainDeletion)
	if err != nil {
		return nil, errors.Wrap(err, "frame ring")
	}

	w, h := r.window.GetFramebufferSize()
	if err := r.createSwapchain(vk.Extent2D{Width: uint32(w), Height: uint32(h)}); err != nil {
		return nil, err
	}

	r.pipes, err = r.createPipelines(r.mainDeletion)
	if err != nil {
		return nil, err
	}

	r.UpdateCamera()
	rlog.Logger().Info("vulkan renderer ready", "width", w, "height", h)
	return r, nil
}

func createWindow(cfg dualrender.WindowConfig) (*glfw.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	return window, nil
}

func (r *Renderer) waitEvents() {
	glfw.WaitEvents()
}

func (r *Renderer) CloseWindow() {
	r.window.SetShouldClose(true)
}

func (r *Renderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

// ResizeWindow resizes the window; the swapchain follows after the next
// present.
func (r *Renderer) ResizeWindow(width, height int) {
	r.window.SetSize(width, height)
	r.loop.resized = true
}

func (r *Renderer) GetWindowHandle() *glfw.Window {
	return r.window
}

func (r *Renderer) SetClearColor(red, green, blue, alpha float32) {
	r.clearColor = [4]float32{red, green, blue, alpha}
}

// BeginDrawing waits for the current frame slot and starts recording. If
// the swapchain had to be recreated the frame is dropped: draws are
// ignored until EndDrawing.
func (r *Renderer) BeginDrawing() error {
	if r.closed {
		return dualrender.ErrClosed
	}
	return r.loop.begin()
}

// EndDrawing submits and presents the frame, then polls window events.
func (r *Renderer) EndDrawing() error {
	if r.closed {
		return dualrender.ErrClosed
	}
	err := r.loop.end()
	glfw.PollEvents()
	return err
}

func (r *Renderer) DrawModel(m dualrender.Model, t dualrender.TextureArray, inst *dualrender.Instances) error {
	return r.draw(m, t, inst, false)
}

// DrawSprite draws with the orthographic projection.
func (r *Renderer) DrawSprite(m dualrender.Model, t dualrender.TextureArray, inst *dualrender.Instances) error {
	return r.draw(m, t, inst, true)
}

func (r *Renderer) draw(m dualrender.Model, t dualrender.TextureArray, inst *dualrender.Instances, is2D bool) error {
	if r.closed {
		return dualrender.ErrClosed
	}
	if err := inst.Validate(); err != nil {
		return err
	}
	msh, ok := r.models.Get(m)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownModel, "model %d", m)
	}
	tex, ok := r.textures.Get(t)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownTextureArray, "texture array %d", t)
	}
	if err := inst.CheckLayers(tex.layers); err != nil {
		return err
	}
	if r.loop.skipped {
		return nil
	}
	if !r.loop.recording() {
		return errors.New("draw outside BeginDrawing/EndDrawing")
	}

	slot := r.frames.Current(r.loop.frame)
	cmd := slot.CommandBuffer
	cmd.CmdBindPipeline(r.pipes.mesh)
	cmd.CmdBindDescriptorSets(r.pipes.meshLayout, 0, slot.CameraSet, tex.set)
	msh.draw(cmd, r.pipes.meshLayout, inst, is2D)
	return nil
}

// CreateModel uploads the geometry. Empty indices mean a non-indexed draw.
func (r *Renderer) CreateModel(vertices []dualrender.Vertex, indices []uint32) (dualrender.Model, error) {
	if r.closed {
		return 0, dualrender.ErrClosed
	}
	m, err := r.uploadMesh(vertices, indices)
	if err != nil {
		return 0, errors.Wrap(err, "create model")
	}
	return r.models.Add(m), nil
}

// UpdateModel replaces the geometry behind m. The old buffers are released
// once no submitted or recording frame can reference them.
func (r *Renderer) UpdateModel(m dualrender.Model, vertices []dualrender.Vertex, indices []uint32) error {
	if r.closed {
		return dualrender.ErrClosed
	}
	if _, ok := r.models.Get(m); !ok {
		return errors.Wrapf(dualrender.ErrUnknownModel, "model %d", m)
	}
	next, err := r.uploadMesh(vertices, indices)
	if err != nil {
		return errors.Wrapf(err, "update model %d", m)
	}
	old, _ := r.models.Replace(m, next)
	return r.release("model", old.destroy)
}

func (r *Renderer) DestroyModel(m dualrender.Model) error {
	if r.closed {
		return dualrender.ErrClosed
	}
	msh, _, ok := r.models.Release(m)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownModel, "model %d", m)
	}
	return r.release("model", msh.destroy)
}

// CreateTextureArray loads paths as the layers of one texture array.
// Loading the same list again returns the existing handle, which then
// needs one more DestroyTextureArray.
func (r *Renderer) CreateTextureArray(paths []string) (dualrender.TextureArray, error) {
	if r.closed {
		return 0, dualrender.ErrClosed
	}
	key := registry.PathKey(paths)
	if h, ok := r.textures.Acquire(key); ok {
		return h, nil
	}
	if r.textures.Len() >= maxTextureArrays {
		return 0, errors.Newf("texture array limit of %d reached", maxTextureArrays)
	}
	t, err := r.uploadTexture(paths)
	if err != nil {
		return 0, errors.Wrap(err, "create texture array")
	}
	return r.textures.AddKeyed(key, t), nil
}

func (r *Renderer) DestroyTextureArray(t dualrender.TextureArray) error {
	if r.closed {
		return dualrender.ErrClosed
	}
	tex, last, ok := r.textures.Release(t)
	if !ok {
		return errors.Wrapf(dualrender.ErrUnknownTextureArray, "texture array %d", t)
	}
	if !last {
		return nil
	}
	return r.release("texture array", tex.destroy)
}

// release destroys a resource after the frames already submitted finish.
// While a frame is recording, the command buffer may still reference it,
// so destruction waits until that frame's fence has signaled.
func (r *Renderer) release(name string, destroy func()) error {
	if err := r.gpu.device.WaitIdle(); err != nil {
		return err
	}
	r.loop.retire(name, destroy)
	return nil
}

// UpdateCamera snapshots the camera; frames recorded afterwards use it.
func (r *Renderer) UpdateCamera() {
	r.cameraData = newCameraData(r.camera)
}

func (r *Renderer) SetCameraPosition(pos mgl32.Vec3) {
	r.camera.Position = pos
}

func (r *Renderer) SetCameraRotation(yaw, pitch float32) {
	r.camera.SetRotation(yaw, pitch)
}

func (r *Renderer) ConfigureCamera(fov float32) {
	r.camera.FOV = fov
}

func (r *Renderer) Camera() *dualrender.Camera {
	return r.camera
}

// Destroy waits for the GPU, runs retired destruction, releases models
// and textures, then flushes the swapchain and main deletion queues. It
// reports allocations that outlived their owners.
func (r *Renderer) Destroy() error {
	if r.closed {
		return nil
	}
	r.closed = true
	rlog.Logger().Debug("vulkan renderer teardown",
		"models", r.models.Len(),
		"textures", r.textures.Len(),
		"live_allocations", r.gpu.allocator.Live())

	var errs error
	if err := r.gpu.device.WaitIdle(); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "wait idle before teardown"))
	}
	r.loop.flushRetired()
	for _, m := range r.models.Drain() {
		m.destroy()
	}
	for _, t := range r.textures.Drain() {
		t.destroy()
	}
	r.swapchainDeletion.Flush()
	r.mainDeletion.Flush()
	return errors.CombineErrors(errs, r.gpu.teardownErr)
}

func (r *Renderer) waitFence(slot int) error {
	return r.frames.Slots[slot].RenderFence.Wait(r.cfg.Vulkan.FenceTimeout.Std())
}

func (r *Renderer) acquire(slot int) (uint32, bool, error) {
	timeout := uint64(r.cfg.Vulkan.FenceTimeout.Std().Nanoseconds())
	image, res := r.sc.swapchain.AcquireNextImage(timeout, r.frames.Slots[slot].PresentSemaphore)
	outOfDate, err := acquireOutcome(res)
	if err != nil {
		return 0, false, errors.Wrapf(err, "timeout %s", r.cfg.Vulkan.FenceTimeout.Std())
	}
	if outOfDate {
		return 0, true, nil
	}
	return image, false, nil
}

func (r *Renderer) record(slot int, image uint32) error {
	s := r.frames.Slots[slot]
	if err := s.CommandBuffer.Reset(); err != nil {
		return err
	}
	if err := s.CameraBuffer.Upload(r.cameraData.bytes()); err != nil {
		return errors.Wrap(err, "camera upload")
	}

	cmd := s.CommandBuffer
	if err := cmd.BeginOneTime(); err != nil {
		return err
	}
	extent := r.sc.extent()
	cmd.CmdBeginRenderPass(r.renderPass.VKRenderPass, r.sc.framebuffers[image].VKFramebuffer, extent, r.clearColor, 1.0)
	cmd.CmdSetViewportAndScissor(extent)
	if r.pipes.triangle != nil {
		cmd.CmdBindPipeline(r.pipes.triangle)
		cmd.CmdDraw(3, 1)
	}
	return nil
}

func (r *Renderer) resetFence(slot int) error {
	return r.frames.Slots[slot].RenderFence.Reset()
}

func (r *Renderer) submit(slot int) error {
	s := r.frames.Slots[slot]
	s.CommandBuffer.CmdEndRenderPass()
	if err := s.CommandBuffer.End(); err != nil {
		return err
	}
	return r.gpu.queue.Submit(vkg.SubmitInfo{
		Buffers:    []*vkg.CommandBuffer{s.CommandBuffer},
		WaitFor:    []*vkg.Semaphore{s.PresentSemaphore},
		WaitStages: []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		Signal:     []*vkg.Semaphore{s.RenderSemaphore},
	}, s.RenderFence)
}

func (r *Renderer) present(slot int, image uint32) (bool, error) {
	return presentOutcome(r.gpu.queue.Present(r.sc.swapchain, image, r.frames.Slots[slot].RenderSemaphore))
}
