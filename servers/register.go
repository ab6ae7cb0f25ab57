package servers

import (
	"fmt"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/filesystem"
)

// Register adds the "direct" and "sendfile" servers to reg.
func Register(reg *privmedia.Registry) {
	reg.RegisterServer("direct", func(env privmedia.ServerEnv, opts privmedia.Options) (privmedia.FileServer, error) {
		store, err := storeFromEnv(env)
		if err != nil {
			return nil, err
		}

		var o DirectOptions
		if err := privmedia.DecodeOptions(opts, &o); err != nil {
			return nil, err
		}

		return NewDirect(store, o)
	})

	reg.RegisterServer("sendfile", func(env privmedia.ServerEnv, opts privmedia.Options) (privmedia.FileServer, error) {
		store, err := storeFromEnv(env)
		if err != nil {
			return nil, err
		}

		o := SendfileOptions{Header: DefaultSendfileHeader, VerifyExists: true}
		if err := privmedia.DecodeOptions(opts, &o); err != nil {
			return nil, err
		}

		return NewSendfile(store, o)
	})
}

func storeFromEnv(env privmedia.ServerEnv) (*filesystem.Store, error) {
	if env.Root == nil {
		return nil, fmt.Errorf("%w: private root is not open", privmedia.ErrInvalidConfig)
	}
	return filesystem.NewFileStorage(env.Root, ""), nil
}
