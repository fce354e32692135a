package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sonic-net/sairedis-go/config"
	"github.com/sonic-net/sairedis-go/counters"
	"github.com/sonic-net/sairedis-go/discovery"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/store"
	"github.com/sonic-net/sairedis-go/syncd"
	"github.com/sonic-net/sairedis-go/transport"
	"github.com/sonic-net/sairedis-go/vswitch"
)

var (
	requestQueueKey string
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&requestQueueKey, "queue", "syncd:requests", "Redis list key the producer pushes requests onto")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Bootstrap against the switch and consume the request queue until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context())
		},
	}
}

func runDaemon(ctx context.Context) error {
	if err := acquireSingleInstanceLock(lockPath); err != nil {
		return err
	}

	opts := config.DefaultOptions()
	if configPath != "" {
		var err error
		opts, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("syncd: load config: %w", err)
		}
	}
	applyLogLevel(opts.LogLevel)

	redisClient := goredis.NewClient(&goredis.Options{Addr: opts.RedisAddr, DB: opts.RedisDB})
	persist, err := store.Dial(ctx, opts.RedisAddr, opts.RedisDB, opts.Flush)
	if err != nil {
		return fmt.Errorf("syncd: dial redis: %w", err)
	}

	driver := vswitch.New()
	switchRID, err := driver.CreateObject(ctx, saimeta.ObjectTypeSwitch, nil)
	if err != nil {
		return fmt.Errorf("syncd: create switch on driver: %w", err)
	}

	ctrl := syncd.NewController(syncd.Options{
		Persist:       persist,
		Driver:        driver,
		Log:           log,
		TieBreakSeed:  opts.TieBreakSeed,
		DiscoverySkip: skipEntriesFrom(opts),
	})

	log.WithField("switch_rid", switchRID).Info("syncd: bootstrapping")
	if err := ctrl.Bootstrap(ctx, switchRID); err != nil {
		return fmt.Errorf("syncd: bootstrap: %w", err)
	}

	mgr := counters.NewManager(&ctrl.SwitchLock)
	wireCounterGroups(mgr, opts, ctrl, driver, persist)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mgr.Run(runCtx)
	}()

	queue := transport.NewRedisQueue(redisClient, requestQueueKey)
	log.WithField("queue", requestQueueKey).Info("syncd: consuming requests")
	err = ctrl.Consume(runCtx, queue)
	wg.Wait()
	if runCtx.Err() != nil {
		log.Info("syncd: shutting down")
		return nil
	}
	return err
}

func skipEntriesFrom(opts config.Options) []discovery.SkipEntry {
	var out []discovery.SkipEntry
	for ot, attrs := range opts.DiscoverySkip {
		for _, id := range attrs {
			out = append(out, discovery.SkipEntry{ObjectType: ot, AttrID: id})
		}
	}
	return out
}

// wireCounterGroups registers one polling group per configured PollGroups
// entry, scoped to every port bootstrap discovered, reading VID/RID pairs
// back out of the controller's current view rather than the driver's own
// defaults so the same wiring works against any saidriver.Driver.
func wireCounterGroups(mgr *counters.Manager, opts config.Options, ctrl *syncd.Controller, driver *vswitch.VirtualSwitch, persist *store.Store) {
	if len(opts.PollGroups) == 0 {
		return
	}

	ports := ctrl.CurrentView().ObjectsOfType(saimeta.ObjectTypePort)
	if len(ports) == 0 {
		return
	}
	objects := make([]counters.ObjectRef, 0, len(ports))
	for _, port := range ports {
		objects = append(objects, counters.ObjectRef{
			ObjectType: saimeta.ObjectTypePort,
			VID:        port.VID,
			RID:        port.RID,
			Attrs:      []saimeta.AttrID{saimeta.AttrPortSpeed},
		})
	}

	publisher := store.NewCounterPublisher(persist)
	for name, interval := range opts.PollGroups {
		mgr.AddGroup(counters.Group{Name: name, Interval: interval, Objects: objects}, driver, publisher)
	}
	log.WithFields(logrus.Fields{"groups": len(opts.PollGroups)}).Info("syncd: counter polling configured")
}
