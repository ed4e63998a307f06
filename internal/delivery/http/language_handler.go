package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// editorLanguage describes one language option of the code editor, including
// the starter snippet loaded when it is selected.
type editorLanguage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	DefaultCode string `json:"defaultCode"`
}

// LanguageHandler serves the editor's language catalog.
type LanguageHandler struct{}

// NewLanguageHandler creates a new LanguageHandler.
func NewLanguageHandler() *LanguageHandler {
	return &LanguageHandler{}
}

// List handles GET /api/v1/languages
func (h *LanguageHandler) List(c *gin.Context) {
	languages := []editorLanguage{
		{
			ID:          "javascript",
			Name:        "JavaScript",
			Extension:   ".js",
			DefaultCode: "// Write your code here\nconsole.log('Hello World');",
		},
		{
			ID:          "python",
			Name:        "Python",
			Extension:   ".py",
			DefaultCode: "# Write your code here\nprint('Hello World')",
		},
		{
			ID:          "java",
			Name:        "Java",
			Extension:   ".java",
			DefaultCode: "public class Main {\n    public static void main(String[] args) {\n        System.out.println(\"Hello World\");\n    }\n}",
		},
		{
			ID:          "cpp",
			Name:        "C++",
			Extension:   ".cpp",
			DefaultCode: "#include <iostream>\n\nint main() {\n    std::cout << \"Hello World\" << std::endl;\n    return 0;\n}",
		},
	}

	c.JSON(http.StatusOK, gin.H{"languages": languages})
}
