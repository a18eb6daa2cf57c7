// Package ingest translates bulk ingestion payloads into storage entities.
//
// Every mapping is a pure function of its inputs. Each entity family has an
// add/update pair which differ in identity handling only: adds generate a
// fresh row key, updates keep the existing row's key so the same logical
// entity keeps the same storage address across re-ingestion.
package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	types "github.com/athena-research/athena/pkg/api/types/ingest"
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

// a nil payload record. No entity is produced.
var ErrNilRecord = errors.New("nil ingestion record")

type keyPolicy func() string

func generateKey() string {
	return uuid.NewString()
}

func preserveKey(id string) keyPolicy {
	return func() string { return id }
}

// apply is the generic mapping core: reject nil, settle identity, build.
func apply[D any, E any](dto *D, key keyPolicy, build func(D, string) (E, error)) (E, error) {
	if dto == nil {
		var zero E
		return zero, ErrNilRecord
	}
	return build(*dto, key())
}

func timeOf(t *rfctime.RFC3339) *time.Time {
	if t == nil {
		return nil
	}
	tt := t.Time()
	return &tt
}

func notificationFrequencyOf(n int) (kdb.NotificationFrequency, error) {
	switch n {
	case 0:
		return kdb.Daily, nil
	case 1:
		return kdb.Weekly, nil
	case 2:
		return kdb.Monthly, nil
	default:
		return "", fmt.Errorf("%d is not NotificationFrequency", n)
	}
}

func coiTypeOf(n int) (kdb.CoiType, error) {
	switch n {
	case 0:
		return kdb.CoiPublic, nil
	case 1:
		return kdb.CoiPrivate, nil
	default:
		return "", fmt.Errorf("%d is not CoiType", n)
	}
}

func researchStatusOf(n int) (kdb.ResearchStatus, error) {
	switch n {
	case 0:
		return kdb.Proposed, nil
	case 1:
		return kdb.InProgress, nil
	case 2:
		return kdb.Completed, nil
	default:
		return "", fmt.Errorf("%d is not ResearchStatus", n)
	}
}

func MapUserToAdd(dto *types.UserJson) (kdb.User, error) {
	return apply(dto, generateKey, func(d types.UserJson, key string) (kdb.User, error) {
		return buildUser(d, key, kdb.External)
	})
}

func MapUserToUpdate(dto *types.UserJson, existing kdb.User) (kdb.User, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.UserJson, key string) (kdb.User, error) {
		u, err := buildUser(d, key, existing.UserType)
		if err != nil {
			return kdb.User{}, err
		}
		u.CreatedAt = existing.CreatedAt
		u.CommunityOfInterests = existing.CommunityOfInterests
		return u, nil
	})
}

func buildUser(d types.UserJson, key string, userType kdb.UserType) (kdb.User, error) {
	if d.OtherContact != "" {
		if _, err := strconv.Atoi(d.OtherContact); err != nil {
			return kdb.User{}, fmt.Errorf(
				"otherContact of user %d is not numeric: %q", d.UserId, d.OtherContact,
			)
		}
	}
	frequency, err := notificationFrequencyOf(d.NotificationFrequency)
	if err != nil {
		return kdb.User{}, err
	}

	return kdb.User{
		Id:     key,
		UserId: d.UserId,

		FirstName:  d.FirstName,
		MiddleName: d.MiddleName,
		LastName:   d.LastName,

		Email:          d.Email,
		OtherContact:   d.OtherContact,
		SecondaryEmail: d.SecondaryEmail,

		Organization:          d.Organization,
		Specialty:             d.Specialty,
		UnderGraduateDegree:   d.UnderGraduateDegree,
		GraduateDegreeProgram: d.GraduateDegreeProgram,

		DepartmentIds:      d.DepartmentId,
		GraduateProgramIds: d.GraduateProgramId,

		Keywords:     d.Keywords,
		KeywordsText: d.KeywordsText,

		NotificationFrequency: frequency,
		UserType:              userType,
	}, nil
}

func MapCoiToAdd(dto *types.CoiJson) (kdb.Coi, error) {
	return apply(dto, generateKey, func(d types.CoiJson, key string) (kdb.Coi, error) {
		c, err := buildCoi(d, key)
		if err != nil {
			return kdb.Coi{}, err
		}
		// records arriving via ingestion have been vetted upstream.
		c.Status = kdb.Approved
		c.AverageRating = "0"
		return c, nil
	})
}

func MapCoiToUpdate(dto *types.CoiJson, existing kdb.Coi) (kdb.Coi, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.CoiJson, key string) (kdb.Coi, error) {
		c, err := buildCoi(d, key)
		if err != nil {
			return kdb.Coi{}, err
		}
		c.Status = existing.Status
		c.Members = existing.Members
		c.NumberOfMembers = existing.NumberOfMembers
		c.SumOfRatings = existing.SumOfRatings
		c.NumberOfRatings = existing.NumberOfRatings
		c.AverageRating = existing.AverageRating
		c.IsDeleted = existing.IsDeleted
		c.CreatedBy = existing.CreatedBy
		c.CreatedAt = existing.CreatedAt
		c.AdminComment = existing.AdminComment
		return c, nil
	})
}

func buildCoi(d types.CoiJson, key string) (kdb.Coi, error) {
	coiType, err := coiTypeOf(d.Type)
	if err != nil {
		return kdb.Coi{}, err
	}
	return kdb.Coi{
		Id:    key,
		CoiId: d.CoiId,

		Name:        d.Name,
		Description: d.Description,
		Type:        coiType,

		ChampionIds: d.ChampionIds,
		ContactId:   d.ContactId,

		TeamId:          d.TeamId,
		GroupLink:       d.GroupLink,
		ImageLink:       d.ImageLink,
		SearchQuery:     d.SearchQuery,
		IncludeInSearch: d.IncludeInSearch,

		Keywords:     d.Keywords,
		KeywordsText: d.KeywordsText,
	}, nil
}

func MapResearchProjectToAdd(dto *types.ResearchProjectJson) (kdb.ResearchArtifact, error) {
	return apply(dto, generateKey, func(d types.ResearchProjectJson, key string) (kdb.ResearchArtifact, error) {
		return buildResearch(kdb.Project, d.ResearchProjectId, d.ResearchBodyJson, key)
	})
}

func MapResearchProjectToUpdate(dto *types.ResearchProjectJson, existing kdb.ResearchArtifact) (kdb.ResearchArtifact, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.ResearchProjectJson, key string) (kdb.ResearchArtifact, error) {
		return buildResearchUpdate(kdb.Project, d.ResearchProjectId, d.ResearchBodyJson, key, existing)
	})
}

func MapResearchProposalToAdd(dto *types.ResearchProposalJson) (kdb.ResearchArtifact, error) {
	return apply(dto, generateKey, func(d types.ResearchProposalJson, key string) (kdb.ResearchArtifact, error) {
		return buildResearch(kdb.Proposal, d.ResearchProposalId, d.ResearchBodyJson, key)
	})
}

func MapResearchProposalToUpdate(dto *types.ResearchProposalJson, existing kdb.ResearchArtifact) (kdb.ResearchArtifact, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.ResearchProposalJson, key string) (kdb.ResearchArtifact, error) {
		return buildResearchUpdate(kdb.Proposal, d.ResearchProposalId, d.ResearchBodyJson, key, existing)
	})
}

func MapResearchRequestToAdd(dto *types.ResearchRequestJson) (kdb.ResearchArtifact, error) {
	return apply(dto, generateKey, func(d types.ResearchRequestJson, key string) (kdb.ResearchArtifact, error) {
		return buildResearch(kdb.Request, d.ResearchRequestId, d.ResearchBodyJson, key)
	})
}

func MapResearchRequestToUpdate(dto *types.ResearchRequestJson, existing kdb.ResearchArtifact) (kdb.ResearchArtifact, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.ResearchRequestJson, key string) (kdb.ResearchArtifact, error) {
		return buildResearchUpdate(kdb.Request, d.ResearchRequestId, d.ResearchBodyJson, key, existing)
	})
}

func buildResearch(kind kdb.ResearchKind, artifactId int, d types.ResearchBodyJson, key string) (kdb.ResearchArtifact, error) {
	status, err := researchStatusOf(d.Status)
	if err != nil {
		return kdb.ResearchArtifact{}, err
	}
	return kdb.ResearchArtifact{
		Id:         key,
		Kind:       kind,
		ArtifactId: artifactId,

		Title:             d.Title,
		Abstract:          d.Abstract,
		Description:       d.Description,
		Status:            status,
		StatusDescription: d.StatusDescription,

		Authors:       kdb.Participants{Names: d.Authors, Ids: d.AuthorIds},
		Advisors:      kdb.Participants{Names: d.Advisors, Ids: d.AdvisorIds},
		SecondReaders: kdb.Participants{Names: d.SecondReaders, Ids: d.SecondReaderIds},
		Sponsors:      kdb.Participants{Names: d.Sponsors, Ids: d.SponsorIds},
		Partners:      kdb.Participants{Names: d.Partners, Ids: d.PartnerIds},

		StartDate:      timeOf(d.StartDate),
		CompletionDate: timeOf(d.CompletionDate),
		LastUpdate:     timeOf(d.LastUpdate),

		Priority:      d.Priority,
		Importance:    d.Importance,
		SecurityLevel: d.SecurityLevel,
		NodeTypeId:    d.NodeTypeId,
		SourceId:      d.SourceId,

		Keywords:      d.Keywords,
		KeywordsText:  d.KeywordsText,
		AverageRating: "0",
	}, nil
}

func buildResearchUpdate(
	kind kdb.ResearchKind, artifactId int, d types.ResearchBodyJson, key string,
	existing kdb.ResearchArtifact,
) (kdb.ResearchArtifact, error) {
	a, err := buildResearch(kind, artifactId, d, key)
	if err != nil {
		return kdb.ResearchArtifact{}, err
	}
	a.SumOfRatings = existing.SumOfRatings
	a.NumberOfRatings = existing.NumberOfRatings
	a.AverageRating = existing.AverageRating
	a.CreatedAt = existing.CreatedAt
	return a, nil
}

func MapSponsorToAdd(dto *types.SponsorJson) (kdb.DirectoryEntry, error) {
	return apply(dto, generateKey, func(d types.SponsorJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntry(kdb.Sponsors, d.SponsorId, d.DirectoryBodyJson, key), nil
	})
}

func MapSponsorToUpdate(dto *types.SponsorJson, existing kdb.DirectoryEntry) (kdb.DirectoryEntry, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.SponsorJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntryUpdate(kdb.Sponsors, d.SponsorId, d.DirectoryBodyJson, key, existing), nil
	})
}

func MapPartnerToAdd(dto *types.PartnerJson) (kdb.DirectoryEntry, error) {
	return apply(dto, generateKey, func(d types.PartnerJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntry(kdb.Partners, d.PartnerId, d.DirectoryBodyJson, key), nil
	})
}

func MapPartnerToUpdate(dto *types.PartnerJson, existing kdb.DirectoryEntry) (kdb.DirectoryEntry, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.PartnerJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntryUpdate(kdb.Partners, d.PartnerId, d.DirectoryBodyJson, key, existing), nil
	})
}

func MapEventToAdd(dto *types.EventJson) (kdb.DirectoryEntry, error) {
	return apply(dto, generateKey, func(d types.EventJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntry(kdb.Events, d.EventId, d.DirectoryBodyJson, key), nil
	})
}

func MapEventToUpdate(dto *types.EventJson, existing kdb.DirectoryEntry) (kdb.DirectoryEntry, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.EventJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntryUpdate(kdb.Events, d.EventId, d.DirectoryBodyJson, key, existing), nil
	})
}

func MapAthenaToolToAdd(dto *types.AthenaToolJson) (kdb.DirectoryEntry, error) {
	return apply(dto, generateKey, func(d types.AthenaToolJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntry(kdb.Tools, d.AthenaToolId, d.DirectoryBodyJson, key), nil
	})
}

func MapAthenaToolToUpdate(dto *types.AthenaToolJson, existing kdb.DirectoryEntry) (kdb.DirectoryEntry, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.AthenaToolJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntryUpdate(kdb.Tools, d.AthenaToolId, d.DirectoryBodyJson, key, existing), nil
	})
}

func MapInfoResourceToAdd(dto *types.InfoResourceJson) (kdb.DirectoryEntry, error) {
	return apply(dto, generateKey, func(d types.InfoResourceJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntry(kdb.InfoResources, d.InfoResourceId, d.DirectoryBodyJson, key), nil
	})
}

func MapInfoResourceToUpdate(dto *types.InfoResourceJson, existing kdb.DirectoryEntry) (kdb.DirectoryEntry, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.InfoResourceJson, key string) (kdb.DirectoryEntry, error) {
		return buildEntryUpdate(kdb.InfoResources, d.InfoResourceId, d.DirectoryBodyJson, key, existing), nil
	})
}

func buildEntry(family kdb.DirectoryFamily, entryId int, d types.DirectoryBodyJson, key string) kdb.DirectoryEntry {
	return kdb.DirectoryEntry{
		Id:      key,
		Family:  family,
		EntryId: entryId,

		Title:        d.Title,
		Description:  d.Description,
		Organization: d.Organization,

		ContactEmail: d.ContactEmail,
		ContactPhone: d.ContactPhone,
		WebSite:      d.WebSite,

		StartDate: timeOf(d.StartDate),
		EndDate:   timeOf(d.EndDate),
		Location:  d.Location,

		Link:     d.Link,
		Provider: d.Provider,

		Keywords:     d.Keywords,
		KeywordsText: d.KeywordsText,

		SecurityLevel: d.SecurityLevel,
		NodeTypeId:    d.NodeTypeId,

		AverageRating: "0",
	}
}

func buildEntryUpdate(
	family kdb.DirectoryFamily, entryId int, d types.DirectoryBodyJson, key string,
	existing kdb.DirectoryEntry,
) kdb.DirectoryEntry {
	e := buildEntry(family, entryId, d, key)
	e.SumOfRatings = existing.SumOfRatings
	e.NumberOfRatings = existing.NumberOfRatings
	e.AverageRating = existing.AverageRating
	e.CreatedAt = existing.CreatedAt
	return e
}

func MapKeywordToAdd(dto *types.KeywordJson) (kdb.Keyword, error) {
	return apply(dto, generateKey, func(d types.KeywordJson, key string) (kdb.Keyword, error) {
		return buildKeyword(d, key), nil
	})
}

func MapKeywordToUpdate(dto *types.KeywordJson, existing kdb.Keyword) (kdb.Keyword, error) {
	return apply(dto, preserveKey(existing.Id), func(d types.KeywordJson, key string) (kdb.Keyword, error) {
		return buildKeyword(d, key), nil
	})
}

func buildKeyword(d types.KeywordJson, key string) kdb.Keyword {
	return kdb.Keyword{
		Id:         key,
		KeywordId:  d.KeywordId,
		Title:      d.Title,
		Synonyms:   d.Synonyms,
		ParentNode: d.ParentNode,
	}
}
