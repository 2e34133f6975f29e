package vkrenderer

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/dualrender/internal/rlog"
	"github.com/celer/dualrender/vkg"
)

// swapchainSet is everything rebuilt when the drawable extent changes.
type swapchainSet struct {
	swapchain    *vkg.Swapchain
	images       []*vkg.Image
	views        []*vkg.ImageView
	depth        *vkg.AllocatedImage
	depthView    *vkg.ImageView
	framebuffers []*vkg.Framebuffer
}

func (s *swapchainSet) extent() vk.Extent2D {
	if s.swapchain == nil {
		return vk.Extent2D{}
	}
	return s.swapchain.Extent
}

// waitForDrawableExtent returns the framebuffer size once both sides are
// non-zero, calling wait (which blocks on window events) until then.
func waitForDrawableExtent(size func() (int, int), wait func()) (int, int) {
	w, h := size()
	for w == 0 || h == 0 {
		wait()
		w, h = size()
	}
	return w, h
}

// createSwapchain builds the swapchain, its image views, the depth buffer
// and one framebuffer per image. Every object goes on the swapchain
// deletion queue. The render pass is created on first use and reused.
func (r *Renderer) createSwapchain(extent vk.Extent2D) error {
	dq := r.swapchainDeletion
	gpu := r.gpu

	sc, err := gpu.device.CreateSwapchain(gpu.surface, gpu.queue, gpu.queue, &vkg.CreateSwapchainOptions{
		ActualSize:  extent,
		PresentMode: vkg.ParsePresentMode(r.cfg.Vulkan.PresentMode),
	})
	if err != nil {
		return errors.Wrap(err, "create swapchain")
	}
	dq.PushFunc("swapchain", sc.Destroy)

	if want := vkg.ParsePresentMode(r.cfg.Vulkan.PresentMode); sc.PresentMode != want {
		rlog.Logger().Warn("present mode unsupported, using fifo", "requested", r.cfg.Vulkan.PresentMode)
	}

	if r.renderPass == nil {
		rp, err := gpu.device.CreateRenderPass(sc.Format)
		if err != nil {
			return errors.Wrap(err, "create render pass")
		}
		r.mainDeletion.PushFunc("render pass", rp.Destroy)
		r.renderPass = rp
	} else if r.renderPass.ColorFormat != sc.Format {
		return errors.Newf("surface format changed from %d to %d", r.renderPass.ColorFormat, sc.Format)
	}

	set := swapchainSet{swapchain: sc}

	set.images, err = sc.GetImages()
	if err != nil {
		return err
	}
	for _, img := range set.images {
		view, err := img.CreateImageView()
		if err != nil {
			return errors.Wrap(err, "swapchain image view")
		}
		dq.PushFunc("swapchain image view", view.Destroy)
		set.views = append(set.views, view)
	}

	set.depth, err = gpu.allocator.CreateImage(
		vk.Extent3D{Width: sc.Extent.Width, Height: sc.Extent.Height, Depth: 1}, 1,
		vkg.DepthFormat,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vkg.MemoryUsageGPUOnly)
	if err != nil {
		return errors.Wrap(err, "depth image")
	}
	dq.PushFunc("depth image", set.depth.Destroy)

	set.depthView, err = set.depth.CreateView(vk.ImageAspectDepthBit, vk.ImageViewType2d)
	if err != nil {
		return errors.Wrap(err, "depth image view")
	}
	dq.PushFunc("depth image view", set.depthView.Destroy)

	for _, view := range set.views {
		fb, err := r.renderPass.CreateFramebuffer(sc.Extent, view, set.depthView)
		if err != nil {
			return err
		}
		dq.PushFunc("framebuffer", fb.Destroy)
		set.framebuffers = append(set.framebuffers, fb)
	}

	r.sc = set
	r.camera.SetViewport(int(sc.Extent.Width), int(sc.Extent.Height))
	rlog.Logger().Debug("swapchain created",
		"width", sc.Extent.Width,
		"height", sc.Extent.Height,
		"images", len(set.images),
		"present_mode", sc.PresentMode)
	return nil
}

// recreateSwapchain waits out a minimized window, drains the GPU, tears the
// old swapchain down and builds a new one at the current size.
func (r *Renderer) recreateSwapchain() error {
	w, h := waitForDrawableExtent(r.window.GetFramebufferSize, r.waitEvents)

	if err := r.gpu.device.WaitIdle(); err != nil {
		return err
	}
	r.swapchainDeletion.Flush()
	r.sc = swapchainSet{}

	rlog.Logger().Info("recreating swapchain", "width", w, "height", h)
	if err := r.createSwapchain(vk.Extent2D{Width: uint32(w), Height: uint32(h)}); err != nil {
		return err
	}
	// the aspect ratio changed
	r.UpdateCamera()
	return nil
}
