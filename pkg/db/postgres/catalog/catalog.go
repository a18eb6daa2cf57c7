package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"

	kdb "github.com/athena-research/athena/pkg/db"
	kpgerr "github.com/athena-research/athena/pkg/db/postgres/errors"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
	"github.com/athena-research/athena/pkg/utils/idcodec"
)

// a struct for DB operations related to the catalog: directory families,
// the keyword taxonomy and users
type catalogPG struct { // implements kdb.CatalogInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *catalogPG {
	return &catalogPG{pool: pool}
}

var _ kdb.CatalogInterface = &catalogPG{}

const entryColumns = `
	"id", "family", "entry_id", "title", "description", "organization",
	"contact_email", "contact_phone", "web_site",
	"start_date", "end_date", "location", "link", "provider",
	"keywords", "keywords_text", "security_level", "node_type_id",
	"sum_of_ratings", "number_of_ratings", "average_rating",
	"created_at", "updated_at"
`

const userColumns = `
	"id", "user_id", "first_name", "middle_name", "last_name",
	"email", "other_contact", "secondary_email",
	"organization", "specialty", "undergraduate_degree", "graduate_degree_program",
	"department_ids", "graduate_program_ids", "keywords", "keywords_text",
	"community_of_interests", "notification_frequency", "user_type",
	"created_at", "updated_at"
`

func (m *catalogPG) FindEntries(ctx context.Context, query kdb.DirectoryFindQuery) ([]kdb.DirectoryEntry, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	order := `"title"`
	switch query.OrderBy {
	case "entryId":
		order = `"entry_id"`
	case "updatedAt":
		order = `"updated_at"`
	}
	if query.Desc {
		order += " DESC"
	}

	stmt := sq.Select(entryColumns).
		From(`"directory_entry"`).
		Where(sq.Eq{`"family"`: string(query.Family)}).
		OrderBy(order, `"id"`).
		PlaceholderFormat(sq.Dollar)

	if 0 < len(query.KeywordId) {
		stmt = stmt.Where(
			`string_to_array(coalesce("keywords", ''), ' ')::int[] && ?::int[]`,
			intArrayLiteral(query.KeywordId),
		)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		stmt = stmt.Where(sq.Or{
			sq.ILike{`"title"`: pattern},
			sq.ILike{`"description"`: pattern},
		})
	}
	if 0 < query.Skip {
		stmt = stmt.Offset(uint64(query.Skip))
	}
	if 0 < query.Top {
		stmt = stmt.Limit(uint64(query.Top))
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, xe.Wrap(err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	entries := []kdb.DirectoryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (m *catalogPG) GetEntries(
	ctx context.Context, family kdb.DirectoryFamily, ids []string,
) (map[string]kdb.DirectoryEntry, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`SELECT `+entryColumns+` FROM "directory_entry" WHERE "family" = $1 AND "id" = ANY($2)`,
		string(family), ids,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	result := map[string]kdb.DirectoryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result[e.Id] = e
	}
	return result, rows.Err()
}

func (m *catalogPG) ExistingByEntryId(
	ctx context.Context, family kdb.DirectoryFamily, entryIds []int,
) (map[int]kdb.DirectoryEntry, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`SELECT `+entryColumns+` FROM "directory_entry" WHERE "family" = $1 AND "entry_id" = ANY($2)`,
		string(family), entryIds,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	result := map[int]kdb.DirectoryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result[e.EntryId] = e
	}
	return result, rows.Err()
}

func (m *catalogPG) UpsertEntries(ctx context.Context, entries []kdb.DirectoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(
			ctx,
			`
			INSERT INTO "directory_entry" (
				"id", "family", "entry_id", "title", "description", "organization",
				"contact_email", "contact_phone", "web_site",
				"start_date", "end_date", "location", "link", "provider",
				"keywords", "keywords_text", "security_level", "node_type_id"
			)
			VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9,
				$10, $11, $12, $13, $14, $15, $16, $17, $18
			)
			ON CONFLICT ("id") DO UPDATE SET
				"family" = EXCLUDED."family",
				"entry_id" = EXCLUDED."entry_id",
				"title" = EXCLUDED."title",
				"description" = EXCLUDED."description",
				"organization" = EXCLUDED."organization",
				"contact_email" = EXCLUDED."contact_email",
				"contact_phone" = EXCLUDED."contact_phone",
				"web_site" = EXCLUDED."web_site",
				"start_date" = EXCLUDED."start_date",
				"end_date" = EXCLUDED."end_date",
				"location" = EXCLUDED."location",
				"link" = EXCLUDED."link",
				"provider" = EXCLUDED."provider",
				"keywords" = EXCLUDED."keywords",
				"keywords_text" = EXCLUDED."keywords_text",
				"security_level" = EXCLUDED."security_level",
				"node_type_id" = EXCLUDED."node_type_id",
				"updated_at" = now()
			`,
			e.Id, string(e.Family), e.EntryId, e.Title, e.Description, e.Organization,
			e.ContactEmail, e.ContactPhone, e.WebSite,
			e.StartDate, e.EndDate, e.Location, e.Link, e.Provider,
			idcodec.Encode(e.Keywords), e.KeywordsText, e.SecurityLevel, e.NodeTypeId,
		); err != nil {
			return xe.Wrap(err)
		}
	}
	return tx.Commit(ctx)
}

func (m *catalogPG) Keywords(ctx context.Context) ([]kdb.Keyword, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		SELECT "id", "keyword_id", "title", "synonyms", "parent_node"
		FROM "keyword" ORDER BY "keyword_id"
		`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	keywords := []kdb.Keyword{}
	for rows.Next() {
		k := kdb.Keyword{}
		if err := rows.Scan(
			&k.Id, &k.KeywordId, &k.Title, &k.Synonyms, &k.ParentNode,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

func (m *catalogPG) UpsertKeywords(ctx context.Context, keywords []kdb.Keyword) error {
	if len(keywords) == 0 {
		return nil
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, k := range keywords {
		if _, err := tx.Exec(
			ctx,
			`
			INSERT INTO "keyword" ("id", "keyword_id", "title", "synonyms", "parent_node")
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT ("keyword_id") DO UPDATE SET
				"title" = EXCLUDED."title",
				"synonyms" = EXCLUDED."synonyms",
				"parent_node" = EXCLUDED."parent_node"
			`,
			k.Id, k.KeywordId, k.Title, k.Synonyms, k.ParentNode,
		); err != nil {
			return xe.Wrap(err)
		}
	}
	return tx.Commit(ctx)
}

func (m *catalogPG) GetUser(ctx context.Context, id string) (kdb.User, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return kdb.User{}, err
	}
	defer conn.Release()

	row := conn.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "athena_user" WHERE "id" = $1`,
		id,
	)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.User{}, kpgerr.Missing{
			Table: "athena_user", Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return u, err
}

func (m *catalogPG) FindUsers(ctx context.Context, search string, skip int, top int) ([]kdb.User, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	stmt := sq.Select(userColumns).
		From(`"athena_user"`).
		OrderBy(`"last_name"`, `"first_name"`, `"id"`).
		PlaceholderFormat(sq.Dollar)

	if search != "" {
		pattern := "%" + search + "%"
		stmt = stmt.Where(sq.Or{
			sq.ILike{`"first_name"`: pattern},
			sq.ILike{`"last_name"`: pattern},
			sq.ILike{`"email"`: pattern},
		})
	}
	if 0 < skip {
		stmt = stmt.Offset(uint64(skip))
	}
	if 0 < top {
		stmt = stmt.Limit(uint64(top))
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, xe.Wrap(err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	users := []kdb.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (m *catalogPG) ExistingByUserId(ctx context.Context, userIds []int) (map[int]kdb.User, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`SELECT `+userColumns+` FROM "athena_user" WHERE "user_id" = ANY($1)`,
		userIds,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	result := map[int]kdb.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result[u.UserId] = u
	}
	return result, rows.Err()
}

func (m *catalogPG) UpsertUsers(ctx context.Context, users []kdb.User) error {
	if len(users) == 0 {
		return nil
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, u := range users {
		cois := u.CommunityOfInterests
		if cois == nil {
			cois = []kdb.CoiRef{}
		}
		coisRaw, err := json.Marshal(cois)
		if err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx,
			`
			INSERT INTO "athena_user" (
				"id", "user_id", "first_name", "middle_name", "last_name",
				"email", "other_contact", "secondary_email",
				"organization", "specialty", "undergraduate_degree", "graduate_degree_program",
				"department_ids", "graduate_program_ids", "keywords", "keywords_text",
				"community_of_interests", "notification_frequency", "user_type"
			)
			VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18, $19
			)
			ON CONFLICT ("id") DO UPDATE SET
				"user_id" = EXCLUDED."user_id",
				"first_name" = EXCLUDED."first_name",
				"middle_name" = EXCLUDED."middle_name",
				"last_name" = EXCLUDED."last_name",
				"email" = EXCLUDED."email",
				"other_contact" = EXCLUDED."other_contact",
				"secondary_email" = EXCLUDED."secondary_email",
				"organization" = EXCLUDED."organization",
				"specialty" = EXCLUDED."specialty",
				"undergraduate_degree" = EXCLUDED."undergraduate_degree",
				"graduate_degree_program" = EXCLUDED."graduate_degree_program",
				"department_ids" = EXCLUDED."department_ids",
				"graduate_program_ids" = EXCLUDED."graduate_program_ids",
				"keywords" = EXCLUDED."keywords",
				"keywords_text" = EXCLUDED."keywords_text",
				"community_of_interests" = EXCLUDED."community_of_interests",
				"notification_frequency" = EXCLUDED."notification_frequency",
				"user_type" = EXCLUDED."user_type",
				"updated_at" = now()
			`,
			u.Id, u.UserId, u.FirstName, u.MiddleName, u.LastName,
			u.Email, u.OtherContact, u.SecondaryEmail,
			u.Organization, u.Specialty, u.UnderGraduateDegree, u.GraduateDegreeProgram,
			idcodec.Encode(u.DepartmentIds), idcodec.Encode(u.GraduateProgramIds),
			idcodec.Encode(u.Keywords), u.KeywordsText,
			coisRaw, string(u.NotificationFrequency), string(u.UserType),
		); err != nil {
			return xe.Wrap(err)
		}
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(r rowScanner) (kdb.DirectoryEntry, error) {
	e := kdb.DirectoryEntry{}
	var family string
	var keywords *string
	if err := r.Scan(
		&e.Id, &family, &e.EntryId, &e.Title, &e.Description, &e.Organization,
		&e.ContactEmail, &e.ContactPhone, &e.WebSite,
		&e.StartDate, &e.EndDate, &e.Location, &e.Link, &e.Provider,
		&keywords, &e.KeywordsText, &e.SecurityLevel, &e.NodeTypeId,
		&e.SumOfRatings, &e.NumberOfRatings, &e.AverageRating,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return kdb.DirectoryEntry{}, err
	}

	f, err := kdb.AsDirectoryFamily(family)
	if err != nil {
		return kdb.DirectoryEntry{}, xe.Wrap(err)
	}
	e.Family = f

	ks, err := idcodec.Decode(keywords)
	if err != nil {
		return kdb.DirectoryEntry{}, xe.Wrap(err)
	}
	e.Keywords = ks
	return e, nil
}

func scanUser(r rowScanner) (kdb.User, error) {
	u := kdb.User{}
	var departmentIds, graduateProgramIds, keywords *string
	var coisRaw []byte
	var frequency, userType string
	if err := r.Scan(
		&u.Id, &u.UserId, &u.FirstName, &u.MiddleName, &u.LastName,
		&u.Email, &u.OtherContact, &u.SecondaryEmail,
		&u.Organization, &u.Specialty, &u.UnderGraduateDegree, &u.GraduateDegreeProgram,
		&departmentIds, &graduateProgramIds, &keywords, &u.KeywordsText,
		&coisRaw, &frequency, &userType,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return kdb.User{}, err
	}

	for _, pair := range []struct {
		raw  *string
		dest *[]int
	}{
		{departmentIds, &u.DepartmentIds},
		{graduateProgramIds, &u.GraduateProgramIds},
		{keywords, &u.Keywords},
	} {
		ids, err := idcodec.Decode(pair.raw)
		if err != nil {
			return kdb.User{}, xe.Wrap(err)
		}
		*pair.dest = ids
	}

	if err := json.Unmarshal(coisRaw, &u.CommunityOfInterests); err != nil {
		return kdb.User{}, xe.Wrap(err)
	}
	if len(u.CommunityOfInterests) == 0 {
		u.CommunityOfInterests = nil
	}

	{
		f, err := kdb.AsNotificationFrequency(frequency)
		if err != nil {
			return kdb.User{}, xe.Wrap(err)
		}
		u.NotificationFrequency = f
	}
	{
		t, err := kdb.AsUserType(userType)
		if err != nil {
			return kdb.User{}, xe.Wrap(err)
		}
		u.UserType = t
	}
	return u, nil
}

func intArrayLiteral(ids []int) string {
	parts := make([]string, len(ids))
	for nth, id := range ids {
		parts[nth] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
