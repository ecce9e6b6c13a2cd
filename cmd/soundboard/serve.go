package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/soundboard"
	"github.com/aretw0/soundboard/internal/cli"
	httpAdapter "github.com/aretw0/soundboard/pkg/adapters/http"
	"github.com/aretw0/soundboard/pkg/adapters/file"
	"github.com/aretw0/soundboard/pkg/adapters/memory"
	"github.com/aretw0/soundboard/pkg/adapters/redis"
	"github.com/aretw0/soundboard/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the compile HTTP server",
	Long: `Serves POST /compile, /validate and /graph. Compiled programs are cached
by the SHA-256 of their source: in memory by default, on disk with
--cache-dir, or in Redis with --redis so replicas share the cache.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		debug, _ := cmd.Flags().GetBool("debug")
		format, _ := cmd.Flags().GetString("log-format")

		logger, err := cli.CreateLogger(debug, format)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		c, err := cli.NewCompiler(cli.Options{Debug: debug}, logger, metrics.Hooks())
		if err != nil {
			return err
		}

		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithLimits(c.Limits()),
			httpAdapter.WithMetrics(metrics, reg),
			httpAdapter.WithVersion(soundboard.Version),
		}
		switch {
		case redisAddr != "":
			store := redis.New(redisAddr, "", 0, redis.WithTTL(ttl))
			defer store.Close()
			pingCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if err := store.Ping(pingCtx); err != nil {
				return fmt.Errorf("redis unreachable at %s: %w", redisAddr, err)
			}
			opts = append(opts,
				httpAdapter.WithStore(store),
				httpAdapter.WithLocker(redis.NewLocker(store.Client(), "soundboard:")))
			logger.Info("Artifact cache: redis", "address", redisAddr, "ttl", ttl)
		case cacheDir != "":
			opts = append(opts,
				httpAdapter.WithStore(file.NewStore(cacheDir)),
				httpAdapter.WithLocker(memory.NewLocker()))
			logger.Info("Artifact cache: directory", "path", cacheDir)
		default:
			opts = append(opts,
				httpAdapter.WithStore(memory.NewStore()),
				httpAdapter.WithLocker(memory.NewLocker()))
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(c, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting Soundboard Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			fmt.Fprintf(cmd.OutOrStdout(), "\nStart shutdown... Signal: %v\n", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				if cerr := srv.Close(); cerr != nil {
					logger.Error("Error killing server", "err", cerr)
				}
				return fmt.Errorf("graceful shutdown did not complete in %v: %w", 5*time.Second, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Soundboard Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address (host:port) for a shared artifact cache")
	serveCmd.Flags().String("cache-dir", "", "Directory for an on-disk artifact cache")
	serveCmd.Flags().Duration("ttl", 24*time.Hour, "Expiry of cached artifacts in Redis (0 keeps them)")
}
