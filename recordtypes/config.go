package recordtypes

import (
	"github.com/bearlytools/recordmodel/container"
	"github.com/bearlytools/recordmodel/field"
	"github.com/bearlytools/recordmodel/record"
	"github.com/bearlytools/recordmodel/schema"
)

// Config exercises plain (non-IdMap) Map fields: string-keyed strings and
// string-keyed integers, both scalar-valued.
type Config struct {
	record.Base
}

var configProto *schema.Protocol

func init() {
	var err error
	configProto, err = schema.Register([]schema.FieldDef{
		{Index: 1, Name: "strings", Kind: field.Map, Type: field.String, KeyType: field.String},
		{Index: 2, Name: "numbers", Kind: field.Map, Type: field.Int64, KeyType: field.String},
	})
	if err != nil {
		panic(err)
	}
}

// NewConfig returns a Config with both maps pre-installed empty.
func NewConfig() *Config {
	c := &Config{}
	c.Init(configProto)
	c.Strings()
	c.Numbers()
	return c
}

// Strings returns the string-valued settings map, lazily installing an empty
// one if absent.
func (c *Config) Strings() *container.Map[string, string] {
	return record.GetMap[string, string](&c.Base, 1)
}

// Numbers returns the integer-valued settings map, lazily installing an empty
// one if absent.
func (c *Config) Numbers() *container.Map[string, int64] {
	return record.GetMap[string, int64](&c.Base, 2)
}
