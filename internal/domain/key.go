package domain

import "strings"

// KeySeparator joins userId and dogId in path segments.
const KeySeparator = "_"

type RequestKey struct {
	UserID string
	DogID  string
}

func (k RequestKey) String() string { return k.UserID + KeySeparator + k.DogID }

// ParseRequestKey splits "<userId>_<dogId>". Exactly one separator is accepted,
// so ids containing the separator can never be mis-split.
func ParseRequestKey(s string) (RequestKey, error) {
	parts := strings.Split(strings.TrimSpace(s), KeySeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RequestKey{}, Invalid("id", "expected <userId>"+KeySeparator+"<dogId>")
	}
	return RequestKey{UserID: parts[0], DogID: parts[1]}, nil
}

// ValidID reports whether an entity id can take part in a composite key.
func ValidID(id string) bool {
	return id != "" && !strings.Contains(id, KeySeparator)
}
