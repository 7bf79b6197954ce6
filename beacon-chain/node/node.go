// Package node is the main service which launches a beacon node and manages
// the lifecycle of all its associated services at runtime, such as the
// attestation pool, the delay queues and the interop chain, gracefully
// closing them if the process ends.
package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethbeacon/attpool/beacon-chain/db"
	"github.com/ethbeacon/attpool/beacon-chain/db/kv"
	"github.com/ethbeacon/attpool/beacon-chain/operations/attestations"
	"github.com/ethbeacon/attpool/beacon-chain/simulator"
	"github.com/ethbeacon/attpool/beacon-chain/sync/pending"
	"github.com/ethbeacon/attpool/cmd"
	"github.com/ethbeacon/attpool/cmd/beacon-chain/flags"
	"github.com/ethbeacon/attpool/config/features"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/monitoring/prometheus"
	"github.com/ethbeacon/attpool/monitoring/tracing"
	"github.com/ethbeacon/attpool/runtime"
	"github.com/ethbeacon/attpool/runtime/version"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// BeaconNodeDbDirName is the directory of the block database under the data
// directory.
const BeaconNodeDbDirName = "beaconchaindata"

// BeaconNode defines a struct that handles the services running the
// attestation pool of a beacon node. It handles the lifecycle of the entire
// system and registers services to a service registry.
type BeaconNode struct {
	cliCtx      *cli.Context
	ctx         context.Context
	cancel      context.CancelFunc
	services    *runtime.ServiceRegistry
	lock        sync.RWMutex
	stop        chan struct{} // Channel to wait for termination notifications.
	db          db.Database
	stateFeed   *event.Feed
	opFeed      *event.Feed
	genesisTime time.Time
	validators  *simulator.Validators
}

// New creates a new node instance, sets up configuration options, and registers
// every required service to the node.
func New(cliCtx *cli.Context) (*BeaconNode, error) {
	if err := tracing.Setup(
		"beacon-chain", // service name
		cliCtx.String(cmd.TracingProcessNameFlag.Name),
		cliCtx.String(cmd.TracingEndpointFlag.Name),
		cliCtx.Float64(cmd.TraceSampleFractionFlag.Name),
		cliCtx.Bool(cmd.EnableTracingFlag.Name),
	); err != nil {
		return nil, err
	}

	features.ConfigureBeaconChain(cliCtx)
	if err := cmd.ConfigureBeaconChain(cliCtx); err != nil {
		return nil, err
	}
	flags.ConfigurePoolParams(cliCtx)

	numValidators := cliCtx.Uint64(flags.InteropNumValidatorsFlag.Name)
	if numValidators == 0 {
		return nil, errors.Errorf("no committee source available, run an interop chain with --%s", flags.InteropNumValidatorsFlag.Name)
	}

	ctx, cancel := context.WithCancel(cliCtx.Context)
	beacon := &BeaconNode{
		cliCtx:      cliCtx,
		ctx:         ctx,
		cancel:      cancel,
		services:    runtime.NewServiceRegistry(),
		stop:        make(chan struct{}),
		stateFeed:   new(event.Feed),
		opFeed:      new(event.Feed),
		genesisTime: time.Now(),
	}
	if cliCtx.IsSet(flags.InteropGenesisTimeFlag.Name) {
		beacon.genesisTime = time.Unix(int64(cliCtx.Uint64(flags.InteropGenesisTimeFlag.Name)), 0)
	}

	validators, err := simulator.NewValidators(numValidators)
	if err != nil {
		cancel()
		return nil, err
	}
	beacon.validators = validators

	if err := beacon.startDB(cliCtx); err != nil {
		cancel()
		return nil, err
	}
	if err := beacon.registerServices(cliCtx); err != nil {
		beacon.closeDB()
		cancel()
		return nil, err
	}
	return beacon, nil
}

func (b *BeaconNode) registerServices(cliCtx *cli.Context) error {
	pool, err := attestations.NewService(b.ctx, &attestations.Config{
		BeaconDB:          b.db,
		CommitteeSource:   b.validators,
		StateNotifier:     b,
		OperationNotifier: b,
		GenesisTime:       b.genesisTime,
	})
	if err != nil {
		return errors.Wrap(err, "could not create attestation pool")
	}
	// The interop chain writes genesis on start, so it goes first.
	if err := b.registerInteropServices(pool); err != nil {
		return err
	}
	if err := b.services.RegisterService(pool); err != nil {
		return err
	}
	if err := b.registerPendingService(); err != nil {
		return err
	}
	if err := b.services.RegisterService(newPoolOutputs(b.ctx, pool, false)); err != nil {
		return err
	}
	if !cliCtx.Bool(cmd.DisableMonitoringFlag.Name) {
		if err := b.registerPrometheusService(cliCtx); err != nil {
			return err
		}
	}
	return nil
}

// StateFeed implements statefeed.Notifier.
func (b *BeaconNode) StateFeed() *event.Feed {
	return b.stateFeed
}

// OperationFeed implements opfeed.Notifier.
func (b *BeaconNode) OperationFeed() *event.Feed {
	return b.opFeed
}

// Start the BeaconNode and kicks off every registered service.
func (b *BeaconNode) Start() {
	b.lock.Lock()

	log.WithFields(logrus.Fields{
		"version":     version.Version(),
		"genesisTime": b.genesisTime.Unix(),
	}).Info("Starting beacon node")

	b.services.StartAll()

	stop := b.stop
	b.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")
		go b.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("Panic closing the beacon node")
	}()

	// Wait for stop channel to be closed.
	<-stop
}

// Close handles graceful shutdown of the system.
func (b *BeaconNode) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	log.Info("Stopping beacon node")
	b.services.StopAll()
	b.closeDB()
	b.cancel()
	close(b.stop)
}

func (b *BeaconNode) closeDB() {
	if err := b.db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}
}

func (b *BeaconNode) startDB(cliCtx *cli.Context) error {
	baseDir := cliCtx.String(cmd.DataDirFlag.Name)
	dbPath := filepath.Join(baseDir, BeaconNodeDbDirName)
	cfg := &kv.Config{InitialMMapSize: cliCtx.Int(cmd.BoltMMapInitialSizeFlag.Name)}

	log.WithFields(logrus.Fields{
		"databasePath":    dbPath,
		"initialMMapSize": humanize.Bytes(uint64(cfg.InitialMMapSize)),
	}).Info("Checking DB")
	d, err := db.NewDB(dbPath, cfg)
	if err != nil {
		return errors.Wrap(err, "could not open database")
	}

	clearDB := cliCtx.Bool(cmd.ForceClearDB.Name)
	if !clearDB && cliCtx.Bool(cmd.ClearDB.Name) {
		clearDB, err = confirmDelete(os.Stdin)
		if err != nil {
			if closeErr := d.Close(); closeErr != nil {
				log.WithError(closeErr).Error("Failed to close database")
			}
			return err
		}
	}
	if clearDB {
		log.Warning("Removing database")
		if err := d.ClearDB(); err != nil {
			return errors.Wrap(err, "could not clear database")
		}
		if err := d.Close(); err != nil {
			return errors.Wrap(err, "could not close db prior to clearing")
		}
		d, err = db.NewDB(dbPath, cfg)
		if err != nil {
			return errors.Wrap(err, "could not create new database")
		}
	}
	b.db = d
	return nil
}

func (b *BeaconNode) registerInteropServices(pool *attestations.Service) error {
	sim, err := simulator.NewSimulator(b.ctx, &simulator.Config{
		BeaconDB:          b.db,
		StateNotifier:     b,
		OperationNotifier: b,
		SlotTicker:        slots.NewSlotTicker(b.genesisTime, params.BeaconConfig().SecondsPerSlot),
		Validators:        b.validators,
		Aggregates:        pool.Aggregates(),
		UseDelayQueues:    !features.Get().DisableDelayQueues,
	})
	if err != nil {
		return errors.Wrap(err, "could not create interop chain")
	}
	return b.services.RegisterService(sim)
}

func (b *BeaconNode) registerPendingService() error {
	if features.Get().DisableDelayQueues {
		log.Warn("Delay queues are disabled")
		return nil
	}
	svc, err := pending.NewService(b.ctx, &pending.Config{
		StateNotifier:     b,
		OperationNotifier: b,
		SlotTicker:        slots.NewSlotTicker(b.genesisTime, params.BeaconConfig().SecondsPerSlot),
	})
	if err != nil {
		return errors.Wrap(err, "could not create delay queues")
	}
	return b.services.RegisterService(svc)
}

func (b *BeaconNode) registerPrometheusService(cliCtx *cli.Context) error {
	service := prometheus.NewService(
		fmt.Sprintf("%s:%d", cliCtx.String(cmd.MonitoringHostFlag.Name), cliCtx.Int(flags.MonitoringPortFlag.Name)),
		b.services,
	)
	logrus.AddHook(prometheus.NewLogrusCollector())
	return b.services.RegisterService(service)
}
