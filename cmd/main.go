package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"gobiblio/config"
	"gobiblio/internal/pkg/cache"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"gobiblio/internal/api/book"
	"gobiblio/internal/api/router"
	"gobiblio/internal/api/user"
	"gobiblio/internal/repository/bookrepo"
	"gobiblio/internal/repository/userrepo"
	"gobiblio/internal/service/bookservice"
	"gobiblio/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço GoBiblio...")

	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado, avisamos, mas continuamos:
		// as variáveis essenciais podem estar no ambiente do sistema.
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", map[string]interface{}{
		"auth_enabled": cfg.AuthEnabled,
		"books_file":   cfg.BooksFile,
		"users_file":   cfg.UsersFile,
	})

	// 2. Infraestrutura opcional: Cache (Redis) para o rate limiter.
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			appLog.Warn("Redis indisponível; rate limiting desativado.", map[string]interface{}{
				"addr":  cfg.RedisAddr,
				"error": err.Error(),
			})
		} else {
			cacheClient = client
			appLog.Info("Conexão Redis estabelecida.", nil)
		}
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler. Nenhum singleton: as instâncias
	// são construídas aqui e passadas explicitamente.

	// A. Repositórios (coleções em memória com persistência em arquivo JSON)
	bookRepo := bookrepo.NewBookRepository(cfg.BooksFile, appLog)
	userRepo := userrepo.NewUserRepository(cfg.UsersFile, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.TokenExpiry)
	appLog.Debug("Serviço de Tokens JWT inicializado.", nil)

	// C. Serviços (Camada de Lógica de Negócio)
	bookSvc := bookservice.NewService(bookRepo, appLog)
	userSvc := userservice.NewService(userRepo, tokenSvc, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// D. Handlers (Camada de Apresentação)
	bookHandler := book.NewHandler(bookSvc, appLog)
	userHandler := user.NewHandler(userSvc, appLog)
	appLog.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor

	r := router.NewRouter(bookHandler, userHandler, tokenSvc, cacheClient, appLog, router.Options{
		AuthEnabled:   cfg.AuthEnabled,
		RateLimitMax:  cfg.RateLimitMaxRequests,
		RateLimitSpan: cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor GoBiblio ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	// Captura de sinal para desligamento controlado
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
