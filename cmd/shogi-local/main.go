package main

import (
	"flag"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"shogi/internal/config"
	"shogi/internal/mcts"
	"shogi/internal/server/game"
	httpserver "shogi/internal/server/http"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 无图形界面的环境会失败，忽略
}

func main() {
	cfg, cfgPath, err := config.Discover()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	addr := flag.String("addr", cfg.Addr, "listen address")
	webDir := flag.String("web", cfg.WebDir, "directory with index.html / js / svg")
	level := flag.String("log", cfg.LogLevel, "log level: debug, info, warn, error")
	depth := flag.Int("depth", cfg.EngineDepth, "default alpha-beta depth")
	sims := flag.Int("mcts-sims", cfg.MCTSSimulations, "default MCTS simulations")
	noBrowser := flag.Bool("no-browser", false, "do not open a browser")
	flag.Parse()

	cfg.Addr, cfg.WebDir, cfg.LogLevel = *addr, *webDir, *level
	cfg.EngineDepth, cfg.MCTSSimulations = *depth, *sims
	cfg.SetupLogger(nil)
	if cfgPath != "" {
		log.Info().Str("path", cfgPath).Msg("using config")
	}

	opts := httpserver.DefaultOptions()
	opts.MaxDepth = cfg.EngineDepth
	opts.TimeLimit = cfg.EngineTime()
	opts.MCTS = mcts.DefaultParams()
	opts.MCTS.Simulations = cfg.MCTSSimulations
	opts.MCTS.MaxTime = cfg.MCTSTime()
	opts.MCTS.NumThreads = cfg.MCTSThreads

	games := game.NewManager()
	h := httpserver.NewHandler(games, opts)
	mux := httpserver.NewMux(h, cfg.WebDir)

	if idle := cfg.GameIdle(); idle > 0 {
		go func() {
			for range time.Tick(idle / 4) {
				if n := games.Prune(idle); n > 0 {
					log.Info().Int("pruned", n).Int("open", games.Len()).Msg("idle games removed")
				}
			}
		}()
	}

	log.Info().Str("addr", cfg.Addr).Str("web", cfg.WebDir).Msg("listening")

	// 延迟打开浏览器，等服务器起来
	if !*noBrowser {
		go func() {
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://127.0.0.1" + cfg.Addr)
		}()
	}

	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
