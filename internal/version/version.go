// ABOUTME: Version information for fortune audio
// ABOUTME: Reported in the control server hello and the CLI banner
package version

const (
	Version      = "0.3.0"
	Product      = "Fortune Audio"
	Manufacturer = "Lotsdraw"
)
