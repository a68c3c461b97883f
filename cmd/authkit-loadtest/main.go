// Command authkit-loadtest measures token resolution and access evaluation
// throughput against a Redis-backed user store.
//
// Without -redis-addr (or REDIS_ADDR) it starts an embedded miniredis, so
// it can run standalone:
//
//	go run ./cmd/authkit-loadtest -users 5000 -ops 100000 -concurrency 128
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/wowktm/authkit"
	"github.com/wowktm/authkit/password"
	"github.com/wowktm/authkit/store"
)

// Interactive argon2 parameters would dominate the login phase; the load
// test cares about store and evaluator throughput, not hash cost.
func loadTestConfig() authkit.Config {
	cfg := authkit.DefaultConfig()
	cfg.Session.SigningKey = []byte("authkit-loadtest-signing-key-0123456789")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Audit.Enabled = false
	return cfg
}

func main() {
	var (
		users       = flag.Int("users", 5000, "number of accounts to seed")
		tokens      = flag.Int("tokens", 256, "number of live session tokens to rotate through")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "aklt", "store key prefix")
	)
	flag.Parse()

	if *users <= 0 || *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, tokens, concurrency, and ops must be > 0")
		os.Exit(2)
	}
	if *tokens > *users {
		*tokens = *users
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		cleanup = mr.Close
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		cleanup = func() {}
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	userStore := store.NewRedis(client, *prefix)

	engine, err := authkit.New().
		WithConfig(loadTestConfig()).
		WithUserStore(userStore).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("seeding %d accounts...\n", *users)
	startSeed := time.Now()
	records := seedAccounts(ctx, userStore, *users)
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	fmt.Printf("logging in %d accounts for live tokens...\n", *tokens)
	liveTokens := make([]string, 0, *tokens)
	snapshots := make([]*authkit.User, 0, *tokens)
	for i := 0; i < *tokens; i++ {
		user, token, err := engine.Login(ctx, authkit.Credentials{
			Email:    records[i].Email,
			Password: seedPassword,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed login failed: %v\n", err)
			os.Exit(1)
		}
		liveTokens = append(liveTokens, token)
		snapshots = append(snapshots, user)
	}

	resolveStats := runResolvePhase(ctx, engine, liveTokens, *ops, *concurrency)
	evaluateStats := runEvaluatePhase(engine, snapshots, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("resolve", resolveStats)
	printStats("evaluate", evaluateStats)
}

const seedPassword = "LoadTest1!"

func seedAccounts(ctx context.Context, s store.UserStore, n int) []store.Record {
	cfg := loadTestConfig()
	hasher, err := password.NewHasher(password.Params{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "hasher init: %v\n", err)
		os.Exit(1)
	}

	// One shared hash keeps seeding fast; every account answers to the
	// same password.
	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed hash: %v\n", err)
		os.Exit(1)
	}

	roles := []authkit.Role{authkit.RoleBuyer, authkit.RoleSeller, authkit.RoleAdmin}
	records := make([]store.Record, 0, n)
	for i := 0; i < n; i++ {
		role := roles[i%len(roles)]
		rec := store.Record{
			ID:           fmt.Sprintf("lt-user-%d", i),
			Email:        fmt.Sprintf("lt-user-%d@example.com", i),
			FirstName:    "Load",
			LastName:     "Tester",
			PasswordHash: hash,
			Role:         string(role),
			Permissions:  uint64(authkit.PermissionsFor(role)),
			Active:       true,
			CreatedAt:    time.Now(),
		}
		if role == authkit.RoleSeller {
			rec.Tier = string(authkit.TierBasic)
			rec.BusinessName = "Load Test Traders"
		}
		if err := s.Create(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "seed create failed: %v\n", err)
			os.Exit(1)
		}
		records = append(records, rec)
	}
	return records
}

func runResolvePhase(ctx context.Context, engine *authkit.Engine, tokens []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				token := tokens[r.Intn(len(tokens))]
				t0 := time.Now()
				_, err := engine.ResolveToken(ctx, token)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

func runEvaluatePhase(engine *authkit.Engine, users []*authkit.User, ops, concurrency int) phaseStats {
	requirements := []authkit.AccessRequirement{
		{},
		{RequiredRole: authkit.RoleSeller},
		{AllowedRoles: []authkit.Role{authkit.RoleSeller, authkit.RoleAdmin}},
		{RequiredPermissions: []authkit.Permission{}},
	}

	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				user := users[r.Intn(len(users))]
				req := requirements[r.Intn(len(requirements))]
				t0 := time.Now()
				decision := authkit.Evaluate(user, req)
				d := time.Since(t0)
				if decision == authkit.DecisionRedirectToAuth {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
