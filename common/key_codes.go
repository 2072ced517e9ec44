package common

// Virtual key codes for the preview window's shortcuts.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyA     = 65 // A key (ASCII), toggles the vibration animation
	KeyC     = 67 // C key (ASCII), clears the selection
	KeyF     = 70 // F key (ASCII), zoom to fit
	KeyL     = 76 // L key (ASCII), toggles atom labels
	KeyR     = 82 // R key (ASCII), toggles continuous rotation
	KeySpace = 32 // Spacebar (ASCII)
	KeyEsc   = 256

	Key1 = 49 // 1 key (ASCII), atom selection scope
	Key2 = 50 // 2 key (ASCII), residue selection scope
	Key3 = 51 // 3 key (ASCII), chain selection scope
)
