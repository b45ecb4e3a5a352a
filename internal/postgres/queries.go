package postgres

// Film rows are fully denormalized server-side: genres and persons are
// aggregated into jsonb arrays so one round-trip yields complete documents.
const filmSelect = `
SELECT
    fw.id::text,
    COALESCE(fw.title, ''),
    COALESCE(fw.description, ''),
    fw.rating,
    fw.updated_at,
    COALESCE(
        jsonb_agg(DISTINCT jsonb_build_object('id', g.id::text, 'name', g.name))
            FILTER (WHERE g.id IS NOT NULL),
        '[]'
    ) AS genres,
    COALESCE(
        jsonb_agg(DISTINCT jsonb_build_object('id', p.id::text, 'full_name', p.full_name, 'role', pfw.role))
            FILTER (WHERE p.id IS NOT NULL),
        '[]'
    ) AS persons
FROM content.film_work fw
LEFT JOIN content.genre_film_work gfw ON gfw.film_work_id = fw.id
LEFT JOIN content.genre g ON g.id = gfw.genre_id
LEFT JOIN content.person_film_work pfw ON pfw.film_work_id = fw.id
LEFT JOIN content.person p ON p.id = pfw.person_id
`

// clock_timestamp is the wall clock, independent of the transaction start.
const nowQuery = `SELECT clock_timestamp()`

const changedFilmsQuery = filmSelect + `
WHERE %s
GROUP BY fw.id
ORDER BY fw.updated_at, fw.id::text
LIMIT $1`

const filmsByIDsQuery = filmSelect + `
WHERE fw.id = ANY($1::text[]::uuid[])
GROUP BY fw.id`

// Genres are selected on their own updated_at; the join only collects the
// films that reference them, so genres without films are still detected.
const changedGenresQuery = `
SELECT
    g.id::text,
    COALESCE(g.name, ''),
    g.updated_at,
    COALESCE(
        array_agg(DISTINCT gfw.film_work_id::text) FILTER (WHERE gfw.film_work_id IS NOT NULL),
        '{}'
    ) AS film_ids
FROM content.genre g
LEFT JOIN content.genre_film_work gfw ON gfw.genre_id = g.id
WHERE %s
GROUP BY g.id
ORDER BY g.updated_at, g.id::text
LIMIT $1`

const personSelect = `
SELECT
    p.id::text,
    COALESCE(p.full_name, ''),
    p.updated_at,
    COALESCE(
        array_agg(DISTINCT pfw.film_work_id::text) FILTER (WHERE pfw.film_work_id IS NOT NULL),
        '{}'
    ) AS film_ids,
    COALESCE(
        array_agg(DISTINCT pfw.role) FILTER (WHERE pfw.role IS NOT NULL),
        '{}'
    ) AS roles
FROM content.person p
LEFT JOIN content.person_film_work pfw ON pfw.person_id = p.id
`

const changedPersonsQuery = personSelect + `
WHERE %s
GROUP BY p.id
ORDER BY p.updated_at, p.id::text
LIMIT $1`

const personsByIDsQuery = personSelect + `
WHERE p.id = ANY($1::text[]::uuid[])
GROUP BY p.id`
