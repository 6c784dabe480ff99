package domain

import "strings"

const (
	// TestFunctionPrefix marks a function definition as a test
	TestFunctionPrefix = "test_"
	// TestClassPrefix marks a class definition as a test container
	TestClassPrefix = "Test"
	// NodeIDSeparator joins the parts of a pytest node identifier
	NodeIDSeparator = "::"
)

// TestRecord represents a single test function discovered in a source file
type TestRecord struct {
	Name      string `json:"name"`                 // Test function name
	File      string `json:"file"`                 // Path as supplied by the file finder
	ClassName string `json:"class_name,omitempty"` // Enclosing test class, empty at module level
}

// HasClass reports whether the record was defined inside a test class
func (r TestRecord) HasClass() bool {
	return r.ClassName != ""
}

// NodeID formats the record as a pytest node identifier:
// <file>::<class>::<name> or <file>::<name>
func (r TestRecord) NodeID() string {
	parts := make([]string, 0, 3)
	parts = append(parts, r.File)
	if r.HasClass() {
		parts = append(parts, r.ClassName)
	}
	parts = append(parts, r.Name)
	return strings.Join(parts, NodeIDSeparator)
}

func (r TestRecord) String() string {
	return r.NodeID()
}

// IsTestFunctionName reports whether a function identifier follows the test naming convention
func IsTestFunctionName(name string) bool {
	return strings.HasPrefix(name, TestFunctionPrefix)
}

// IsTestClassName reports whether a class identifier follows the test class naming convention
func IsTestClassName(name string) bool {
	return strings.HasPrefix(name, TestClassPrefix)
}

// NodeIDs formats a batch of records, preserving order
func NodeIDs(records []TestRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.NodeID())
	}
	return ids
}
