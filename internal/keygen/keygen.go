// Package keygen derives storage keys for uploaded assets.
//
// A key looks like
//
//	asset/private/image/assetvault@1717171717171-K3ZQ-5b7c0d8e-2f4a-4c1e-9b7d-0e6f1a2b3c4d
//
// The access scope and the major MIME type are encoded in the path so that
// objects can be filtered by prefix in the bucket. Uniqueness comes from the
// random UUID; the timestamp and the short reference are for humans.
package keygen

import (
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/assetvault/internal/common"
	"github.com/google/uuid"
)

// Access is the visibility scope encoded in a key.
type Access string

const (
	AccessPrivate Access = "private"
	AccessPublic  Access = "public"
)

// DefaultNamespace prefixes the object name of every generated key.
const DefaultNamespace = "assetvault"

const (
	keyPrefix    = "asset"
	refLength    = 4
	unknownMajor = "application"
)

// ParseAccess converts s into an Access, rejecting anything but
// "private" and "public".
func ParseAccess(s string) (Access, error) {
	switch Access(s) {
	case AccessPrivate, AccessPublic:
		return Access(s), nil
	default:
		return "", fmt.Errorf("%w: unknown access level %q", common.ErrValidation, s)
	}
}

// Source describes the file a key is generated for.
type Source struct {
	Type string
	Name string
}

// Generator builds keys. The zero value is usable and uses DefaultNamespace
// and the wall clock.
type Generator struct {
	Namespace string
	Now       func() time.Time
}

var defaultGenerator = &Generator{}

// NewKey generates a key with the default generator.
func NewKey(src Source, access Access) string {
	return defaultGenerator.NewKey(src, access)
}

// NewKey returns a fresh key for src under the given access scope.
// It panics only if the system random source fails, like uuid.New.
func (g *Generator) NewKey(src Source, access Access) string {
	ns := sanitize(g.Namespace, isNamespaceRune)
	if ns == "" {
		ns = DefaultNamespace
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	ref, err := common.MakeRandRef(refLength)
	if err != nil {
		panic(err)
	}

	return fmt.Sprintf("%s/%s/%s/%s@%d-%s-%s",
		keyPrefix, access, majorType(src), ns, now().UnixMilli(), ref, uuid.New())
}

// majorType returns the part of the MIME type before the slash. When the type
// is empty it is guessed from the file extension.
func majorType(src Source) string {
	t := src.Type
	if t == "" {
		t = mime.TypeByExtension(strings.ToLower(filepath.Ext(src.Name)))
	}
	major, _, _ := strings.Cut(t, "/")
	major = sanitize(strings.ToLower(strings.TrimSpace(major)), isMajorRune)
	if major == "" {
		return unknownMajor
	}
	return major
}

// sanitize replaces every rune not accepted by ok with '-', so generated keys
// always satisfy Parse.
func sanitize(s string, ok func(rune) bool) string {
	return strings.Map(func(r rune) rune {
		if ok(r) {
			return r
		}
		return '-'
	}, s)
}

func isMajorRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '.' || r == '+' || r == '-'
}

func isNamespaceRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '.' || r == '-'
}

var keyRe = regexp.MustCompile(`^asset/(private|public)/([a-z0-9.+-]+)/([A-Za-z0-9_.-]+)@(\d+)-([0-9A-Z]{4})-([0-9a-f-]{36})$`)

// Key is the parsed form of a storage key.
type Key struct {
	Access    Access
	Major     string
	Namespace string
	CreatedAt time.Time
	Ref       string
	UUID      uuid.UUID
}

// Parse validates s as a key produced by a Generator.
func Parse(s string) (*Key, error) {
	m := keyRe.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed storage key", common.ErrValidation)
	}

	ms, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad key timestamp: %v", common.ErrValidation, err)
	}

	id, err := uuid.Parse(m[6])
	if err != nil {
		return nil, fmt.Errorf("%w: bad key uuid: %v", common.ErrValidation, err)
	}

	return &Key{
		Access:    Access(m[1]),
		Major:     m[2],
		Namespace: m[3],
		CreatedAt: time.UnixMilli(ms),
		Ref:       m[5],
		UUID:      id,
	}, nil
}
