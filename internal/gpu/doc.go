// Package gpu holds the wgpu/hal plumbing shared by the chart types:
// buffer helpers, shader compilation, device opening and pixel readback.
//
// Everything here operates on raw hal handles. Ownership stays with the
// caller; helpers never destroy what they did not create.
package gpu
