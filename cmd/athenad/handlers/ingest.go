package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	apiingest "github.com/athena-research/athena/pkg/api/types/ingest"
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/ingest"
)

// ingestJobs maps the URL family segment to its bookkeeping job name.
var ingestJobs = map[string]string{
	"users":              "UsersSync",
	"cois":               "CoisSync",
	"research-projects":  "ResearchProjectsSync",
	"research-proposals": "ResearchProposalsSync",
	"research-requests":  "ResearchRequestsSync",
	"sponsors":           "SponsorsSync",
	"partners":           "PartnersSync",
	"events":             "EventsSync",
	"tools":              "ToolsSync",
	"info-resources":     "InfoResourcesSync",
	"keywords":           "KeywordsSync",
}

var errMalformedPayload = errors.New("malformed ingestion payload")

// ingestion runs one bulk load: look existing rows up by business id,
// map each element as add or update, and upsert the mapped entities.
type ingestion[D any, E any] struct {
	idOf     func(D) int
	existing func(ctx context.Context, ids []int) (map[int]E, error)
	add      func(*D) (E, error)
	update   func(*D, E) (E, error)
	upsert   func(ctx context.Context, entities []E) error
}

func (ing ingestion[D, E]) run(ctx context.Context, family string, body io.Reader) (apiingest.Result, error) {
	dtos := []*D{}
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&dtos); err != nil {
		return apiingest.Result{}, fmt.Errorf("%w: %s", errMalformedPayload, err)
	}

	ids := []int{}
	for _, d := range dtos {
		if d != nil {
			ids = append(ids, ing.idOf(*d))
		}
	}
	existing, err := ing.existing(ctx, ids)
	if err != nil {
		return apiingest.Result{}, err
	}

	result := apiingest.Result{Family: family}
	entities := []E{}
	for nth, d := range dtos {
		var entity E
		var err error
		isUpdate := false
		if d == nil {
			_, err = ing.add(nil)
		} else if ex, ok := existing[ing.idOf(*d)]; ok {
			isUpdate = true
			entity, err = ing.update(d, ex)
		} else {
			entity, err = ing.add(d)
		}
		if err != nil {
			result.Skipped += 1
			result.Errors = append(result.Errors, fmt.Sprintf("item #%d: %s", nth, err))
			continue
		}
		entities = append(entities, entity)
		if isUpdate {
			result.Updated += 1
		} else {
			result.Added += 1
		}
	}

	if len(entities) != 0 {
		if err := ing.upsert(ctx, entities); err != nil {
			return apiingest.Result{}, err
		}
	}
	return result, nil
}

func IngestHandler(
	dbCatalog kdb.CatalogInterface,
	dbCoi kdb.CoiInterface,
	dbResearch kdb.ResearchInterface,
	dbSync kdb.SyncInterface,
	paramKey string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if _, err := principalOf(c); err != nil {
			return err
		}

		family := c.Param(paramKey)
		jobName, ok := ingestJobs[family]
		if !ok {
			return apierr.NotFound()
		}

		result, err := runIngestion(ctx, dbCatalog, dbCoi, dbResearch, family, c.Request().Body)

		record := kdb.SyncRecord{
			JobName:   jobName,
			LastRunAt: time.Now(),
			Succeeded: err == nil,
		}
		if err != nil {
			record.FailureReason = err.Error()
		}
		if rerr := dbSync.Record(ctx, record); rerr != nil {
			return apierr.InternalServerError(rerr)
		}

		if err != nil {
			if errors.Is(err, errMalformedPayload) {
				return apierr.BadRequest("body should be a JSON array of records", err)
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, result)
	}
}

func runIngestion(
	ctx context.Context,
	dbCatalog kdb.CatalogInterface,
	dbCoi kdb.CoiInterface,
	dbResearch kdb.ResearchInterface,
	family string,
	body io.Reader,
) (apiingest.Result, error) {
	switch family {
	case "users":
		return ingestion[apiingest.UserJson, kdb.User]{
			idOf:     func(d apiingest.UserJson) int { return d.UserId },
			existing: dbCatalog.ExistingByUserId,
			add:      ingest.MapUserToAdd,
			update:   ingest.MapUserToUpdate,
			upsert:   dbCatalog.UpsertUsers,
		}.run(ctx, family, body)
	case "cois":
		return ingestion[apiingest.CoiJson, kdb.Coi]{
			idOf:     func(d apiingest.CoiJson) int { return d.CoiId },
			existing: dbCoi.ExistingByCoiId,
			add:      ingest.MapCoiToAdd,
			update:   ingest.MapCoiToUpdate,
			upsert:   dbCoi.Upsert,
		}.run(ctx, family, body)
	case "research-projects":
		return ingestion[apiingest.ResearchProjectJson, kdb.ResearchArtifact]{
			idOf: func(d apiingest.ResearchProjectJson) int { return d.ResearchProjectId },
			existing: func(ctx context.Context, ids []int) (map[int]kdb.ResearchArtifact, error) {
				return dbResearch.ExistingByArtifactId(ctx, kdb.Project, ids)
			},
			add:    ingest.MapResearchProjectToAdd,
			update: ingest.MapResearchProjectToUpdate,
			upsert: dbResearch.Upsert,
		}.run(ctx, family, body)
	case "research-proposals":
		return ingestion[apiingest.ResearchProposalJson, kdb.ResearchArtifact]{
			idOf: func(d apiingest.ResearchProposalJson) int { return d.ResearchProposalId },
			existing: func(ctx context.Context, ids []int) (map[int]kdb.ResearchArtifact, error) {
				return dbResearch.ExistingByArtifactId(ctx, kdb.Proposal, ids)
			},
			add:    ingest.MapResearchProposalToAdd,
			update: ingest.MapResearchProposalToUpdate,
			upsert: dbResearch.Upsert,
		}.run(ctx, family, body)
	case "research-requests":
		return ingestion[apiingest.ResearchRequestJson, kdb.ResearchArtifact]{
			idOf: func(d apiingest.ResearchRequestJson) int { return d.ResearchRequestId },
			existing: func(ctx context.Context, ids []int) (map[int]kdb.ResearchArtifact, error) {
				return dbResearch.ExistingByArtifactId(ctx, kdb.Request, ids)
			},
			add:    ingest.MapResearchRequestToAdd,
			update: ingest.MapResearchRequestToUpdate,
			upsert: dbResearch.Upsert,
		}.run(ctx, family, body)
	case "sponsors":
		return ingestion[apiingest.SponsorJson, kdb.DirectoryEntry]{
			idOf: func(d apiingest.SponsorJson) int { return d.SponsorId },
			existing: func(ctx context.Context, ids []int) (map[int]kdb.DirectoryEntry, error) {
				return dbCatalog.ExistingByEntryId(ctx, kdb.Sponsors, ids)
			},
			add:    ingest.MapSponsorToAdd,
			update: ingest.MapSponsorToUpdate,
			upsert: dbCatalog.UpsertEntries,
		}.run(ctx, family, body)
	case "partners":
		return ingestion[apiingest.PartnerJson, kdb.DirectoryEntry]{
			idOf: func(d apiingest.PartnerJson) int { return d.PartnerId },
			existing: func(ctx context.Context, ids []int) (map[int]kdb.DirectoryEntry, error) {
				return dbCatalog.ExistingByEntryId(ctx, kdb.Partners, ids)
			},
			add:    ingest.MapPartnerToAdd,
			update: ingest.MapPartnerToUpdate,
			upsert: dbCatalog.UpsertEntries,
		}.run(ctx, family, body)
	case "events":
		return ingestion[apiingest.EventJson, kdb.DirectoryEntry]{
			idOf: func(d apiingest.EventJson) int { return d.EventId },
			existing: func(ctx context.Context, ids []int) (map[int]kdb.DirectoryEntry, error) {
				return dbCatalog.ExistingByEntryId(ctx, kdb.Events, ids)
			},
			add:    ingest.MapEventToAdd,
			update: ingest.MapEventToUpdate,
			upsert: dbCatalog.UpsertEntries,
		}.run(ctx, family, body)
	case "tools":
		return ingestion[apiingest.AthenaToolJson, kdb.DirectoryEntry]{
			idOf: func(d apiingest.AthenaToolJson) int { return d.AthenaToolId },
			existing: func(ctx context.Context, ids []int) (map[int]kdb.DirectoryEntry, error) {
				return dbCatalog.ExistingByEntryId(ctx, kdb.Tools, ids)
			},
			add:    ingest.MapAthenaToolToAdd,
			update: ingest.MapAthenaToolToUpdate,
			upsert: dbCatalog.UpsertEntries,
		}.run(ctx, family, body)
	case "info-resources":
		return ingestion[apiingest.InfoResourceJson, kdb.DirectoryEntry]{
			idOf: func(d apiingest.InfoResourceJson) int { return d.InfoResourceId },
			existing: func(ctx context.Context, ids []int) (map[int]kdb.DirectoryEntry, error) {
				return dbCatalog.ExistingByEntryId(ctx, kdb.InfoResources, ids)
			},
			add:    ingest.MapInfoResourceToAdd,
			update: ingest.MapInfoResourceToUpdate,
			upsert: dbCatalog.UpsertEntries,
		}.run(ctx, family, body)
	case "keywords":
		return ingestion[apiingest.KeywordJson, kdb.Keyword]{
			idOf: func(d apiingest.KeywordJson) int { return d.KeywordId },
			existing: func(ctx context.Context, _ []int) (map[int]kdb.Keyword, error) {
				all, err := dbCatalog.Keywords(ctx)
				if err != nil {
					return nil, err
				}
				byId := map[int]kdb.Keyword{}
				for _, k := range all {
					byId[k.KeywordId] = k
				}
				return byId, nil
			},
			add:    ingest.MapKeywordToAdd,
			update: ingest.MapKeywordToUpdate,
			upsert: dbCatalog.UpsertKeywords,
		}.run(ctx, family, body)
	default:
		return apiingest.Result{}, fmt.Errorf("unknown ingestion family: %s", family)
	}
}

func GetSyncRecordHandler(dbSync kdb.SyncInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		jobName := c.Param(paramKey)

		record, err := dbSync.Get(ctx, jobName)
		if err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiingest.ComposeSyncStatus(record))
	}
}
