package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/classmate-cli/internal/server"
	"github.com/KaramelBytes/classmate-cli/internal/store"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

var (
	serveAddr     string
	serveDemo     bool
	serveRedis    bool
	serveName     string
	serveProvider string
	serveModel    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workspace over a JSON HTTP API",
	Example: `  classmate serve --addr :8080
  classmate serve --demo --provider mock
  classmate serve --redis --name fall-semester`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, provider, err := buildRuntime(cfg, runtimeOptions{ProviderFlag: serveProvider})
		if err != nil {
			return err
		}

		opts := []workspace.Option{workspace.WithLogger(logger), workspace.WithSettings(chatSettings(serveModel))}
		var (
			ws  *workspace.Workspace
			st  store.Store
			rdb *redis.Client
		)
		switch {
		case serveRedis:
			if cfg.RedisAddr == "" {
				return fmt.Errorf("--redis requires redis_addr in config (or CLASSMATE_REDIS_ADDR)")
			}
			rdb, err = store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			if err != nil {
				return err
			}
			defer rdb.Close()
			st = store.NewRedis(rdb, serveName, time.Duration(cfg.RedisWorkspaceTTLSec)*time.Second)
		case !serveDemo:
			fs, err := store.NewFile(cfg.WorkspaceFile)
			if err != nil {
				return err
			}
			st = fs
		}

		if serveDemo {
			ws = workspace.NewDemoWorkspace(opts...)
		} else {
			ws = workspace.New(opts...)
			snap, found, err := st.Load(ctx)
			if err != nil {
				return fmt.Errorf("load workspace: %w", err)
			}
			if found {
				ws.Restore(snap)
			}
		}
		defer ws.Close()

		saved := make(chan struct{})
		saveCtx, stopSave := context.WithCancel(context.Background())
		if st != nil {
			go func() {
				defer close(saved)
				store.AutoSave(saveCtx, ws, st, time.Second, logger)
			}()
		} else {
			close(saved)
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ServerAddr
		}
		mode := gin.ReleaseMode
		if debug {
			mode = gin.DebugMode
		}
		h := server.NewRouter(server.Deps{
			Workspace:   ws,
			Runtime:     rt,
			Provider:    provider,
			ChatTimeout: chatTimeout(cfg),
			Redis:       rdb,
			Logger:      logger,
			GinMode:     mode,
		})
		logger.Infow("serving", "addr", addr, "provider", provider, "redis", serveRedis, "demo", serveDemo)
		err = server.Run(ctx, addr, h, logger)
		stopSave()
		<-saved
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to server_addr from config)")
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "serve a sample workspace")
	serveCmd.Flags().BoolVar(&serveRedis, "redis", false, "keep the workspace in Redis instead of the workspace file")
	serveCmd.Flags().StringVar(&serveName, "name", "default", "workspace name in Redis")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "provider: openrouter|ollama|mock")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "model override")
}
