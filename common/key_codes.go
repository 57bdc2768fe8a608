package common

// Virtual key codes delivered by the window. Values match GLFW key codes,
// which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyR   = 82  // R key (ASCII), resets the camera
	KeyT   = 84  // T key (ASCII), toggles day/night
	KeyEsc = 256 // Escape key (GLFW), closes the view
)
