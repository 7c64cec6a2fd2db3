package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/config"
	"github.com/GregMSThompson/ledger-engine/internal/notify"
	"github.com/GregMSThompson/ledger-engine/internal/store"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Store     store.LedgerStore
	Publisher notify.Publisher
	AMQP      *notify.Client
}

// Run wires the logger, the configured ledger store and the message
// publisher. On error the returned Bootstrap still carries a usable logger.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewJSONHandler)
	slog.SetDefault(bs.Log)

	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	bs.Store, err = InitStore(applicationCtx, cfg)
	if err != nil {
		return bs, err
	}
	if cfg.CacheSize > 0 {
		cached, err := store.NewCachedStore(bs.Store, int64(cfg.CacheSize))
		if err != nil {
			return bs, err
		}
		bs.Store = cached
	}

	bs.Publisher = notify.NopPublisher{}
	if cfg.AMQPURL != "" {
		bs.AMQP, err = notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return bs, err
		}
		bs.Publisher = bs.AMQP
	}

	bs.Log.Info("bootstrap complete", "store", cfg.Store, "cache_size", cfg.CacheSize, "amqp", cfg.AMQPURL != "")
	return bs, nil
}

func (bs *Bootstrap) Close() error {
	var errList []error
	if bs.AMQP != nil {
		errList = append(errList, bs.AMQP.Close())
	}
	if bs.Store != nil {
		errList = append(errList, bs.Store.Close())
	}
	return errors.Join(errList...)
}
