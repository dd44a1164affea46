// Package open hands web links to the system browser.
package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Start opens link in the default browser without waiting for it.
// Only absolute http and https links are accepted.
func Start(link string) error {
	cmd, err := command(runtime.GOOS, link)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(goos, link string) (*exec.Cmd, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("refusing to open %q", link)
	}

	switch goos {
	case "windows":
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", u.String()), nil
	case "darwin":
		return exec.Command("open", u.String()), nil
	case "android":
		return exec.Command("termux-open-url", u.String()), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", u.String()), nil
	default:
		return nil, fmt.Errorf("opening links is not supported on %s", goos)
	}
}
