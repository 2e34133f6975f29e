/*
Package dualrender is a small real-time rendering layer with two
interchangeable backends behind one Renderer interface.

The Vulkan backend (package vkrenderer) manages everything explicitly: the
swapchain and its depth buffer, two frames in flight each with their own
command pool, semaphores, fence and camera uniform buffer, staging uploads
through a dedicated one-shot submission path, and ordered teardown through
deletion queues. The OpenGL backend (package glrenderer) draws textured,
instanced geometry on a 3.3 core context and lets the driver handle the
rest.

A typical loop:

	runtime.LockOSThread()
	cfg, _ := dualrender.LoadConfig("dualrender.toml")
	r, err := vkrenderer.New(cfg)
	...
	quad, _ := r.CreateModel(dualrender.QuadVertices())
	for !r.ShouldClose() {
		r.BeginDrawing()
		r.DrawModel(quad, tex, &dualrender.Instances{Offsets: []mgl32.Vec3{{}}})
		r.EndDrawing()
	}
	r.Destroy()

Errors that abort startup carry ErrInit; check them with errors.Is. Frame
errors other than swapchain invalidation are not recoverable.
*/
package dualrender
