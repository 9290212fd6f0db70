package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrFFmpegNotFound reports that no usable ffmpeg executable was found.
var ErrFFmpegNotFound = errors.New("ffmpeg not found; install it or set FFMPEG_BINARY")

// ResolveFFmpeg returns the ffmpeg executable to run. An explicit path must
// point at an executable file; a bare name is resolved from PATH.
func ResolveFFmpeg(configured string) (string, error) {
	name := strings.TrimSpace(configured)
	if name == "" {
		name = "ffmpeg"
	}
	if strings.ContainsRune(name, filepath.Separator) {
		info, err := os.Stat(name)
		if err != nil || !isExecutable(info) {
			return "", fmt.Errorf("%w (%s)", ErrFFmpegNotFound, name)
		}
		return name, nil
	}
	resolved, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w (%s)", ErrFFmpegNotFound, name)
	}
	return resolved, nil
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
