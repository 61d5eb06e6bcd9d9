package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	memfiles "pet-calendar/internal/adapters/files/memory"
	mem "pet-calendar/internal/adapters/storage/memory"
	pg "pet-calendar/internal/adapters/storage/postgres"
	"pet-calendar/internal/domain/calendar"
	"pet-calendar/internal/domain/notifications"
	"pet-calendar/internal/domain/pets"
	"pet-calendar/internal/domain/users"
	"pet-calendar/internal/domain/vetcontacts"
	"pet-calendar/internal/middleware"
	"pet-calendar/internal/platform/logger"
	"pet-calendar/internal/ports/auth"
	"pet-calendar/internal/ports/files"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-calendar/docs" // swagger generado
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: bucket de archivos. Si es nil, usa el in-memory.
	FileStorage files.Storage

	// Opcional: logger. Si es nil, se arma desde env.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		petsRepo  pets.Repository
		eventRepo calendar.Repository
		notifRepo notifications.Repository
		vetsRepo  vetcontacts.Repository
		usersRepo users.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				// Sin DB el server igual levanta (in-memory), pero que quede
				// registrado: un DSN malo en prod no debe fallar en silencio.
				log.Error("db open failed, falling back to in-memory repos", map[string]any{
					"err": err.Error(),
				})
			} else {
				db = opened
			}
		}
	}

	if db != nil {
		if err := pg.Migrate(context.Background(), db); err != nil {
			log.Error("migrate failed", map[string]any{"err": err.Error()})
		}
		petsRepo = pg.NewPetsRepo(db)
		eventRepo = pg.NewCalendarRepo(db)
		notifRepo = pg.NewNotificationsRepo(db)
		vetsRepo = pg.NewVetContactsRepo(db)
		usersRepo = pg.NewUsersRepo(db)
	} else {
		petsRepo = mem.NewPetsRepo()
		eventRepo = mem.NewCalendarRepo()
		notifRepo = mem.NewNotificationsRepo()
		vetsRepo = mem.NewVetContactsRepo()
		usersRepo = mem.NewUsersRepo()
	}

	storage := opts.FileStorage
	if storage == nil {
		storage = memfiles.NewStorage()
	}

	// Services por módulo
	petsSvc := pets.NewService(petsRepo)
	calendarSvc := calendar.NewService(eventRepo)
	notifSvc := notifications.NewService(notifRepo)
	vetsSvc := vetcontacts.NewService(vetsRepo)
	usersSvc := users.NewService(usersRepo)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc, storage)
	calendar.RegisterRoutes(r, calendarSvc, petsSvc, notifSvc, log)
	notifications.RegisterRoutes(r, notifSvc)
	vetcontacts.RegisterRoutes(r, vetsSvc)
	users.RegisterRoutes(r, usersSvc, storage)

	return r
}
