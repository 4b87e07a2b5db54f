// Command histdemo renders a histogram of normally distributed samples to a
// PNG file.
//
// Usage:
//
//	histdemo --bins 40 --samples 100000 --out hist.png
//	histdemo --config hist.toml --backend noop
package main

import (
	"os"

	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
