package exitcode

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{ValidationError, "Validation error"},
		{FileSystemError, "File system error"},
		{GitError, "Git error"},
		{42, "Unknown error"},
	}

	for _, test := range tests {
		if got := String(test.code); got != test.expected {
			t.Errorf("String(%d) = %q, expected %q", test.code, got, test.expected)
		}
	}
}

func TestSuccessIsZero(t *testing.T) {
	if Success != 0 {
		t.Errorf("Success must be 0, got %d", Success)
	}
	if GeneralError != 1 {
		t.Errorf("GeneralError must be 1, got %d", GeneralError)
	}
}
