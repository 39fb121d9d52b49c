package terminal

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial terminal configuration from genesis and
// save it to the database.
func (*Initializer) FromGenesis(opts weave.Options, params weave.GenesisParams, db weave.KVStore) error {
	if err := gconf.InitConfig(db, opts, "terminal", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
