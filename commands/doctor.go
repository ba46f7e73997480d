package commands

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kbinani/screenshot"
	"github.com/mobile-next/desktopcli/devices"
)

type DoctorInfo struct {
	DesktopCLIVersion string   `json:"desktopcli_version"`
	OS                string   `json:"os"`
	Arch              string   `json:"arch"`
	OSVersion         string   `json:"os_version"`
	InputSupported    bool     `json:"input_supported"`
	ActiveDisplays    int      `json:"active_displays"`
	DisplayServer     string   `json:"display_server,omitempty"`
	ConfigPath        string   `json:"config_path,omitempty"`
	TokenSource       string   `json:"token_source,omitempty"`
	Problems          []string `json:"problems,omitempty"`
}

// DoctorOptions carries facts known only to the caller.
type DoctorOptions struct {
	Version     string
	ConfigPath  string
	TokenSource string
}

func getDisplayServer() string {
	if runtime.GOOS != "linux" {
		return ""
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return "wayland"
	}
	if display := os.Getenv("DISPLAY"); display != "" {
		return "x11 (" + display + ")"
	}
	return ""
}

func getOSVersion() string {
	switch runtime.GOOS {
	case "darwin":
		output, err := exec.Command("sw_vers", "-productVersion").CombinedOutput()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(output))
	case "windows":
		output, err := exec.Command("cmd", "/c", "ver").CombinedOutput()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(output))
	case "linux":
		data, err := os.ReadFile("/etc/os-release")
		if err != nil {
			return ""
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "PRETTY_NAME=") {
				return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
			}
		}
		return ""
	default:
		return ""
	}
}

// DoctorCommand performs system diagnostics and returns information about the environment
func DoctorCommand(opts DoctorOptions) *CommandResponse {
	info := DoctorInfo{
		DesktopCLIVersion: opts.Version,
		OS:                runtime.GOOS,
		Arch:              runtime.GOARCH,
		OSVersion:         getOSVersion(),
		InputSupported:    devices.InputSupported,
		ActiveDisplays:    screenshot.NumActiveDisplays(),
		DisplayServer:     getDisplayServer(),
		ConfigPath:        opts.ConfigPath,
		TokenSource:       opts.TokenSource,
	}

	info.Problems = diagnose(info)
	return NewSuccessResponse(info)
}

func diagnose(info DoctorInfo) []string {
	var problems []string
	if !info.InputSupported {
		problems = append(problems, "binary was built without cgo, input actions will fail")
	}
	if info.ActiveDisplays == 0 {
		problems = append(problems, "no active displays found")
	}
	if info.OS == "linux" && info.DisplayServer == "" {
		problems = append(problems, "neither DISPLAY nor WAYLAND_DISPLAY is set")
	}
	if info.DisplayServer == "wayland" {
		problems = append(problems, "wayland sessions may block synthetic input and screen capture")
	}
	return problems
}
