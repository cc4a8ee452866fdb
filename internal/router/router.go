package router

import (
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/config"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/handler"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/infra"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/middleware"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles built by the composition root.
type Deps struct {
	Store repository.Store
	Clock clock.Clock
	// DB is nil when the in-memory store is used.
	DB *gorm.DB
	// Redis is nil when REDIS_URL is empty.
	Redis *redis.Client
	// Recibos receives finalized sales for PDF and email. May be nil.
	Recibos service.ReciboDispatcher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Infrastructure ───────────────────────────────────────────────────────
	precoCache := infra.NewPrecoCache(deps.Redis, cfg.PrecoCacheTTL)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogoSvc := service.NewCatalogoService(deps.Store, deps.Clock, precoCache)
	vendaSvc := service.NewVendaService(deps.Store, deps.Clock)
	checkoutSvc := service.NewCheckoutService(deps.Store, catalogoSvc, deps.Clock, deps.Recibos, precoCache)
	financeiroSvc := service.NewFinanceiroService(deps.Store, deps.Clock)

	// ── Handlers ─────────────────────────────────────────────────────────────
	produtosH := handler.NewProdutosHandler(catalogoSvc)
	consultaH := handler.NewConsultaPrecosHandler(catalogoSvc, precoCache)
	vendasH := handler.NewVendasHandler(vendaSvc, checkoutSvc, deps.Clock, cfg.StoreName, cfg.ReceiptWidth)
	financeiroH := handler.NewFinanceiroHandler(financeiroSvc, deps.Clock)
	relatoriosH := handler.NewRelatoriosHandler(checkoutSvc, financeiroSvc, deps.Clock, cfg.StoreName)
	dlqH := handler.NewDLQHandler(deps.Redis)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(deps.DB, deps.Redis))

	v1 := r.Group("/v1")
	{
		v1.GET("/preco/:codigo", consultaH.GetPrecoPorCodigo)

		prods := v1.Group("/produtos")
		{
			prods.POST("", produtosH.Criar)
			prods.GET("", produtosH.Listar)
			prods.GET("/valor-estoque", produtosH.ValorEstoque)
			prods.GET("/codigo/:codigo", produtosH.ObterPorCodigo)
			prods.GET("/:id", produtosH.ObterPorID)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
			prods.PATCH("/:id/reativar", produtosH.Reativar)
			prods.PATCH("/:id/estoque", produtosH.AjustarEstoque)
			prods.GET("/:id/movimentos", produtosH.ListarMovimentos)
		}

		vendas := v1.Group("/vendas")
		{
			vendas.POST("", vendasH.Abrir)
			vendas.GET("", vendasH.ListarDia)
			vendas.GET("/:id", vendasH.ObterVenda)
			vendas.DELETE("/:id", vendasH.Cancelar)
			vendas.GET("/:id/carrinho", vendasH.ObterCarrinho)
			vendas.POST("/:id/itens", vendasH.AdicionarItem)
			vendas.PUT("/:id/itens/:item_id", vendasH.DefinirQuantidade)
			vendas.DELETE("/:id/itens/:item_id", vendasH.RemoverItem)
			vendas.POST("/:id/desconto", vendasH.AplicarDesconto)
			vendas.POST("/:id/finalizar", vendasH.Finalizar)
			vendas.POST("/:id/devolucao", vendasH.Devolver)
			vendas.GET("/:id/recibo", vendasH.Recibo)
		}

		fin := v1.Group("/financeiro")
		{
			fin.POST("/transacoes", financeiroH.RegistrarTransacao)
			fin.GET("/transacoes", financeiroH.ListarTransacoes)
			fin.POST("/despesas", financeiroH.RegistrarDespesa)
			fin.GET("/resumo", financeiroH.ResumoDia)
			fin.GET("/resumo-periodo", financeiroH.ResumoPeriodo)
			fin.POST("/fechamentos", financeiroH.CriarFechamento)
			fin.GET("/fechamentos", financeiroH.ListarFechamentos)
			fin.GET("/fechamentos/:data", financeiroH.ObterFechamento)
			fin.GET("/fechamentos/:data/existe", financeiroH.ExisteFechamento)
		}

		rel := v1.Group("/relatorios")
		{
			rel.GET("/dia/:data", relatoriosH.RelatorioDia)
			rel.GET("/transacoes.xlsx", relatoriosH.ExportarTransacoes)
		}

		v1.GET("/admin/dlq/:fila", dlqH.Listar)
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
