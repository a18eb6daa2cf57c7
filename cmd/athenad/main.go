package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/url"
	"path"
	"time"

	kcs "github.com/athena-research/athena/pkg/configs/server"
	kdb "github.com/athena-research/athena/pkg/db"
	kpg "github.com/athena-research/athena/pkg/db/postgres"
	"github.com/athena-research/athena/pkg/loop"
	"github.com/athena-research/athena/pkg/provision"
	"github.com/athena-research/athena/pkg/utils/echoutil"
	"github.com/athena-research/athena/pkg/utils/filewatch"
	kstrings "github.com/athena-research/athena/pkg/utils/strings"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/athena-research/athena/cmd/athenad/handlers"
)

func main() {

	configPath := flag.String("config-path", "", "server config path")
	schemaRepo := flag.String("schema-repo", "", "directory of schema migration files")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := kcs.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	ctx := context.Background()
	{
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		ctx = wctx
		context.AfterFunc(ctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
	}

	api, err := root("/api")
	if err != nil {
		log.Fatalf("api root /api is invalid url or path: %s", err)
	}

	// get dbaccesor
	db, err := getDBAccesor(ctx, conf.DBURI, *schemaRepo)
	if err != nil {
		log.Fatalf("can not connect database: %s", err.Error())
	}
	defer db.Close()

	if err := db.Schema().Upgrade(ctx); err != nil {
		log.Fatalf("can not upgrade database schema: %s", err)
	}
	{
		sctx, cancel := db.Schema().Context(ctx)
		defer cancel()
		ctx = sctx
	}

	var provisioner handlers.Provisioner = provision.Null()
	if conf.ProvisionerURL != "" {
		provisioner = provision.New(conf.ProvisionerURL, nil)
	}

	// handlers
	{
		e.GET(api("news"), handlers.FindNewsHandler(db.News()))
		e.POST(api("news"), handlers.RegisterNewsHandler(db.News()))

		e.GET(api("news/:newsId/"), handlers.GetNewsHandler(db.News(), "newsId"))
		e.DELETE(api("news/:newsId/"), handlers.DeleteNewsHandler(db.News(), "newsId"))
		e.PUT(api("news/:newsId/ratings"), handlers.RateNewsHandler(db.News(), "newsId"))
	}

	{
		e.GET(api("cois"), handlers.FindCoiHandler(db.Cois()))
		e.POST(api("cois"), handlers.RegisterCoiHandler(db.Cois()))

		e.GET(api("cois/:coiId/"), handlers.GetCoiHandler(db.Cois(), "coiId"))
		e.POST(api("cois/:coiId/members"), handlers.JoinCoiHandler(db.Cois(), "coiId"))
		e.PUT(api("cois/:coiId/ratings"), handlers.RateCoiHandler(db.Cois(), "coiId"))
	}

	{
		e.GET(api("requests"), handlers.FindRequestsHandler(db.Requests()))
		e.PUT(
			api("requests/approve"),
			handlers.ApproveRequestsHandler(
				db.Requests(), db.Cois(), provisioner, log.Default(),
			),
		)
		e.PUT(api("requests/reject"), handlers.RejectRequestsHandler(db.Requests()))
	}

	{
		e.GET(api("research"), handlers.FindResearchHandler(db.Research()))
		e.GET(api("research/:researchId/"), handlers.GetResearchHandler(db.Research(), "researchId"))
		e.PUT(api("research/:researchId/ratings"), handlers.RateResearchHandler(db.Research(), "researchId"))
	}

	{
		e.GET(api("catalog/:family/"), handlers.FindCatalogEntriesHandler(db.Catalog(), "family"))
		e.GET(api("keywords"), handlers.GetKeywordsHandler(db.Catalog()))
		e.GET(api("users"), handlers.FindUsersHandler(db.Catalog()))
		e.GET(api("users/:userId/"), handlers.GetUserHandler(db.Catalog(), "userId"))
	}

	{
		e.GET(api("collections"), handlers.FindCollectionsHandler(db.Collections()))
		e.POST(api("collections"), handlers.RegisterCollectionHandler(db.Collections()))
		e.PUT(
			api("collections/:collectionId/items"),
			handlers.AddCollectionItemsHandler(db.Collections(), "collectionId"),
		)
	}

	{
		e.GET(api("feedback"), handlers.FindFeedbackHandler(db.Feedback()))
		e.POST(api("feedback"), handlers.RegisterFeedbackHandler(db.Feedback()))
	}

	{
		e.GET(api("home"), handlers.GetHomeHandler(db.Home()))
		e.PUT(api("home"), handlers.PutHomeHandler(db.Home()))
	}

	{
		e.POST(
			api("ingest/:family/"),
			handlers.IngestHandler(db.Catalog(), db.Cois(), db.Research(), db.Sync(), "family"),
		)
		e.GET(api("sync/:job/"), handlers.GetSyncRecordHandler(db.Sync(), "job"))
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	go sweepRatings(ctx, db, conf.RatingRecomputeInterval)

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.ServerPort, cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.ServerPort))
	}
}

func getDBAccesor(ctx context.Context, dburi string, schemaRepo string) (kdb.AthenaDatabase, error) {
	options := []kpg.Option{}
	if schemaRepo != "" {
		options = append(options, kpg.WithSchemaRepository(schemaRepo))
	}
	return kpg.New(ctx, dburi, options...)
}

// sweepRatings periodically refreshes stale rating averages and records
// each sweep as a sync job run. A failed sweep is recorded and retried on
// the next tick.
func sweepRatings(ctx context.Context, db kdb.AthenaDatabase, interval string) {
	period := 15 * time.Minute
	if interval != "" {
		p, err := time.ParseDuration(interval)
		if err != nil {
			log.Fatalf("ratingRecomputeInterval %s is not a duration: %s", interval, err)
		}
		period = p
	}

	_, err := loop.Start(ctx, 0, func(ctx context.Context, _ int) (int, loop.Next) {
		refreshed, err := db.Ratings().Recompute(ctx)

		record := kdb.SyncRecord{
			JobName:   "RatingRecompute",
			LastRunAt: time.Now(),
			Succeeded: err == nil,
		}
		if err != nil {
			record.FailureReason = err.Error()
			log.Printf("rating recompute failed: %s", err)
		} else if 0 < refreshed {
			log.Printf("rating recompute refreshed %d rows", refreshed)
		}
		if rerr := db.Sync().Record(ctx, record); rerr != nil {
			log.Printf("can not record rating recompute run: %s", rerr)
		}

		return refreshed, loop.Continue(period)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("rating recompute loop stopped: %s", err)
	}
}

// create api URL factory
//
// args:
//   - root: api root
//
// return:
// - func: it receive relative path from root, and returns full-path of URL.
func root(r string) (func(...string) string, error) {
	//    when r is https://example.org:8080/api/root/path
	origin := "" // https://example.org:8080/ . "/" terminated. if r is path only, this is empty.
	base := ""   // /api/root/path
	{
		b, err := url.Parse(r)
		if err != nil {
			return nil, err
		}
		base = b.Path
		if b.Host != "" || b.Scheme != "" {
			_r := *b
			r := &_r
			r.RawPath = ""
			r.Path = ""
			r.RawQuery = ""
			r.Fragment = ""
			origin = r.String()
		}
	}
	origin = kstrings.SuppySuffix(origin, "/")

	return func(s ...string) string {
		parts := make([]string, len(s)+1)
		parts[0] = base
		copy(parts[1:], s)
		path := path.Join(parts...)
		path = kstrings.TrimPrefixAll(path, "/")

		return kstrings.SuppySuffix(origin+path, "/")
	}, nil
}
