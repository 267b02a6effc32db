package docstore

import (
	"fmt"
	"strings"
)

// QualifyMode controls whether the standard field names (identifier and
// timestamps) are namespaced by the collection they belong to.
type QualifyMode string

const (
	// QualifyNone uses the base field names unmodified.
	QualifyNone QualifyMode = "none"

	// QualifyPartial prefixes base names with the last collection-name
	// segment: base "id" in users/<uid>/posts becomes "posts.id".
	QualifyPartial QualifyMode = "partial"

	// QualifyFull prefixes base names with all collection-name segments
	// joined by ".": base "id" in users/<uid>/posts becomes "users.posts.id".
	QualifyFull QualifyMode = "full"
)

// fieldSep joins qualifier and base name, and name segments in full mode.
const fieldSep = "."

// Default base names for the reserved fields.
const (
	DefaultIDName      = "id"
	DefaultCreatedName = "created_at"
	DefaultUpdatedName = "updated_at"
)

// KeywordConfig selects the base names for the reserved fields and how they
// are qualified per collection. The zero value means bare "id",
// "created_at" and "updated_at" for every collection.
type KeywordConfig struct {
	// IDName is the base name of the identifier field. Default "id".
	IDName string

	// CreatedName is the base name of the creation timestamp. Default "created_at".
	CreatedName string

	// UpdatedName is the base name of the update timestamp. Default "updated_at".
	UpdatedName string

	// Qualify selects the qualification mode. Default [QualifyNone].
	Qualify QualifyMode
}

func (cfg KeywordConfig) withDefaults() KeywordConfig {
	if cfg.IDName == "" {
		cfg.IDName = DefaultIDName
	}

	if cfg.CreatedName == "" {
		cfg.CreatedName = DefaultCreatedName
	}

	if cfg.UpdatedName == "" {
		cfg.UpdatedName = DefaultUpdatedName
	}

	if cfg.Qualify == "" {
		cfg.Qualify = QualifyNone
	}

	return cfg
}

// Keywords decides, per collection, the field names used for the identifier
// and the two timestamps. One concrete implementation exists per
// qualification mode; the implementation is fixed at store construction.
//
// Mixing different Keywords configurations against one physical store
// produces inconsistent field names on disk; avoiding that is the caller's
// responsibility.
type Keywords interface {
	// IDField returns the identifier field name for the collection.
	IDField(p Path) string

	// CreatedField returns the creation-timestamp field name for the collection.
	CreatedField(p Path) string

	// UpdatedField returns the update-timestamp field name for the collection.
	UpdatedField(p Path) string
}

// NewKeywords builds the [Keywords] implementation for cfg.
// Returns [ErrInvalidConfig] for an unknown qualification mode.
func NewKeywords(cfg KeywordConfig) (Keywords, error) {
	cfg = cfg.withDefaults()

	switch cfg.Qualify {
	case QualifyNone:
		return bareKeywords{cfg: cfg}, nil
	case QualifyPartial:
		return leafKeywords{cfg: cfg}, nil
	case QualifyFull:
		return pathKeywords{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: unknown qualify mode %q", ErrInvalidConfig, cfg.Qualify)
	}
}

// bareKeywords returns base names unmodified.
type bareKeywords struct {
	cfg KeywordConfig
}

func (k bareKeywords) IDField(Path) string      { return k.cfg.IDName }
func (k bareKeywords) CreatedField(Path) string { return k.cfg.CreatedName }
func (k bareKeywords) UpdatedField(Path) string { return k.cfg.UpdatedName }

// leafKeywords qualifies base names with the last collection-name segment.
type leafKeywords struct {
	cfg KeywordConfig
}

func (k leafKeywords) IDField(p Path) string      { return qualify(p.leafName(), k.cfg.IDName) }
func (k leafKeywords) CreatedField(p Path) string { return qualify(p.leafName(), k.cfg.CreatedName) }
func (k leafKeywords) UpdatedField(p Path) string { return qualify(p.leafName(), k.cfg.UpdatedName) }

// pathKeywords qualifies base names with all collection-name segments,
// identifiers dropped, joined in order.
type pathKeywords struct {
	cfg KeywordConfig
}

func (k pathKeywords) IDField(p Path) string {
	return qualify(strings.Join(p.names(), fieldSep), k.cfg.IDName)
}

func (k pathKeywords) CreatedField(p Path) string {
	return qualify(strings.Join(p.names(), fieldSep), k.cfg.CreatedName)
}

func (k pathKeywords) UpdatedField(p Path) string {
	return qualify(strings.Join(p.names(), fieldSep), k.cfg.UpdatedName)
}

func qualify(qualifier, base string) string {
	if qualifier == "" {
		return base
	}

	return qualifier + fieldSep + base
}
