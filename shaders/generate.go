// Package shaders holds the GLSL sources for both backends. The OpenGL
// backend compiles the gl_*.glsl files at startup; the Vulkan backend
// loads the SPIR-V produced by go generate, which needs glslc on PATH.
package shaders

//go:generate glslc -fshader-stage=vert mesh.vert -o mesh.vert.spv
//go:generate glslc -fshader-stage=frag mesh.frag -o mesh.frag.spv
//go:generate glslc -fshader-stage=vert triangle.vert -o triangle.vert.spv
//go:generate glslc -fshader-stage=frag triangle.frag -o triangle.frag.spv
