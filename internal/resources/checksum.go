package resources

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
)

// Checksum is the content digest triple of a resource body. Each part is a
// sha256 hex digest, or empty when the corresponding body is absent.
// Combined is empty iff both parts are empty.
type Checksum struct {
	HTML     string `json:"html"`
	CSS      string `json:"css"`
	Combined string `json:"combined"`
}

// ComputeChecksum builds the digest triple for the given bodies. A nil body
// counts as absent and yields an empty digest.
func ComputeChecksum(html, css *string) Checksum {
	var sum Checksum
	if html != nil {
		sum.HTML = digest(*html)
	}
	if css != nil {
		sum.CSS = digest(*css)
	}
	if sum.HTML != "" || sum.CSS != "" {
		sum.Combined = digest(sum.HTML + sum.CSS)
	}
	return sum
}

func digest(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

// Equal reports whether two triples match in all three parts.
func (c Checksum) Equal(other Checksum) bool {
	return c.HTML == other.HTML && c.CSS == other.CSS && c.Combined == other.Combined
}

// UnmarshalJSON accepts the triple either as an object or in its
// pre-serialized form, a JSON string containing the encoded object.
// Older collections carry the latter.
func (c *Checksum) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*c = Checksum{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		if strings.TrimSpace(inner) == "" {
			*c = Checksum{}
			return nil
		}
		data = []byte(inner)
	}

	type plain Checksum
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Checksum(p)
	return nil
}
