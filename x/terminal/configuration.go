package terminal

import (
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/gconf"
)

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	// Owner is optional. Without it the configuration is immutable.
	if len(c.Owner) != 0 {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if !coin.IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", c.Ticker)
	}
	if c.BaseWeight <= 0 {
		return errors.Wrap(errors.ErrState, "base weight must be positive")
	}
	if err := validateProjectID(c.PlatformProject); err != nil {
		return errors.Wrap(err, "platform project")
	}
	for i, t := range c.AllowedTerminals {
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "allowed terminal #%d", i)
		}
	}
	return nil
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "terminal", &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
