package app

import (
	"github.com/vk/datagridgo/internal/registry"
	"github.com/vk/datagridgo/modules/boolean"
	"github.com/vk/datagridgo/modules/datetime"
	"github.com/vk/datagridgo/modules/decimal"
	"github.com/vk/datagridgo/modules/email"
	"github.com/vk/datagridgo/modules/env_vars"
	"github.com/vk/datagridgo/modules/integer"
	"github.com/vk/datagridgo/modules/name"
	"github.com/vk/datagridgo/modules/pattern"
	"github.com/vk/datagridgo/modules/sequence"
	"github.com/vk/datagridgo/modules/ulid"
	"github.com/vk/datagridgo/modules/uuid"
)

// coreModules is the definitive list of all provider modules compiled into
// the datagridgo binary.
var coreModules = []registry.Module{
	&boolean.Module{},
	&datetime.Module{},
	&decimal.Module{},
	&email.Module{},
	&env_vars.Module{},
	&integer.Module{},
	&name.Module{},
	&pattern.Module{},
	&sequence.Module{},
	&ulid.Module{},
	&uuid.Module{},
}
