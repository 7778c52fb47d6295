package config

import (
	"fmt"

	"github.com/spf13/afero"
)

func Template() string {
	return viewerTemplate
}

func WriteTemplate(fs afero.Fs, path string, overwrite bool) error {
	if !overwrite {
		if ok, _ := afero.Exists(fs, path); ok {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return afero.WriteFile(fs, path, []byte(viewerTemplate), 0o600)
}

const viewerTemplate = `# sketch viewer configuration
width = 200
height = 200

# canvas pixels per terminal column; each row shows 2*scale pixels
scale = 2

frame_interval = "100ms"

# key code that ends the session (27 = escape)
quit_key = 27

# frames played by render, trace and stats (0 = until end of stream)
max_frames = 1000

log_level = "info"
log_file = ""
`
