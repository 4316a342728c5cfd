package database

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistentModels(t *testing.T) {
	ms := PersistentModels()
	assert.NotEmpty(t, ms)

	seen := map[reflect.Type]bool{}
	for _, m := range ms {
		typ := reflect.TypeOf(m)

		// every entry must be a struct pointer so AutoMigrate can reflect on it
		assert.Equal(t, reflect.Ptr, typ.Kind())
		assert.Equal(t, reflect.Struct, typ.Elem().Kind())

		// registry must stay free of duplicates
		assert.False(t, seen[typ], "duplicate model %s", typ)
		seen[typ] = true
	}
}
