package main

import (
	"context"
	"log"
	"time"

	httpadapter "petkeeper/internal/adapter/http"
	ledgermock "petkeeper/internal/adapter/ledger/mock"
	gormrepo "petkeeper/internal/adapter/repo/gorm"
	"petkeeper/internal/adapter/repo/memory"
	redisrepo "petkeeper/internal/adapter/repo/redis"
	"petkeeper/internal/adapter/scheduler"
	"petkeeper/internal/app/botctl"
	"petkeeper/internal/app/delegation"
	"petkeeper/internal/app/history"
	"petkeeper/internal/app/petcycle"
	"petkeeper/internal/app/ports"
	"petkeeper/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	state, records, owners, txManager := mustBuildRepos(cfg)
	ledger := buildLedgerGateway(cfg)

	orchestrator := &petcycle.Orchestrator{
		State:          state,
		Records:        records,
		Delegations:    owners,
		Ledger:         ledger,
		WalletAddress:  cfg.WalletAddress,
		ConfirmTimeout: cfg.ConfirmTimeout,
		Now:            time.Now,
	}

	h := httpadapter.Handler{
		Bot:        botctl.UseCase{State: state, BaseRpcURL: cfg.BaseRpcURL},
		Delegation: delegation.UseCase{Owners: owners, Ledger: ledger, Tx: txManager},
		History:    history.UseCase{Records: records, State: state},
		Cycle:      orchestrator,
		Secret:     cfg.ReportSecret,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Timer{
		Cycle:      orchestrator,
		Interval:   cfg.TickInterval,
		RunOnStart: cfg.RunOnStart,
	}.Run(ctx)

	s := server.Default(server.WithHostPorts(cfg.ListenAddr))
	h.RegisterRoutes(s)

	log.Printf("petkeeper listening on %s (wallet %s, cycle every %s)", cfg.ListenAddr, cfg.WalletAddress, cfg.TickInterval)
	s.Spin()
}

func mustBuildRepos(cfg config.Config) (ports.StateRepository, ports.RecordRepository, ports.DelegationRepository, ports.TxManager) {
	switch {
	case cfg.RedisURL != "":
		store, err := redisrepo.Open(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("open redis: %v", err)
		}
		log.Printf("using redis store at %s", cfg.RedisURL)
		return redisrepo.NewStateRepo(store), redisrepo.NewRecordRepo(store), redisrepo.NewDelegationRepo(store), redisrepo.TxManager{}

	case cfg.DatabaseDSN != "":
		db, err := gormrepo.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		log.Print("using postgres store")
		return gormrepo.NewStateRepo(db), gormrepo.NewRecordRepo(db), gormrepo.NewDelegationRepo(db), gormrepo.NewTxManager(db)

	default:
		log.Print("warning: no PETKEEPER_REDIS_URL or PETKEEPER_DB_DSN set, using in-memory store (state is lost on restart)")
		store := memory.NewStore()
		return memory.NewStateRepo(store), memory.NewRecordRepo(store), memory.NewDelegationRepo(store), memory.TxManager{}
	}
}

func buildLedgerGateway(cfg config.Config) ports.LedgerGateway {
	// The on-chain client is injected here once available; until then the
	// simulated gateway keeps the control surface and scheduler fully
	// operational without touching the chain.
	log.Printf("warning: using simulated ledger gateway against %s, no transactions will be submitted", cfg.BaseRpcURL)
	return &ledgermock.Gateway{}
}
