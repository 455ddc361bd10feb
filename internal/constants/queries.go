package constants

const (
	GetRouteByCacheKey = `
	SELECT * FROM routes WHERE cache_key = $1
	`

	GetRouteByID = `
	SELECT * FROM routes WHERE id = $1
	`

	ListRoutesForProject = `
	SELECT * FROM routes
	WHERE project_id = $1
	ORDER BY distance_m
	LIMIT $2 OFFSET $3
	`

	InsertRoute = `
	INSERT INTO routes (
		id,
		project_id,
		profile,
		graph_version,
		distance_m,
		duration_ms,
		geom,
		bbox,
		details,
		cache_key
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING *;
	`

	ReplaceRoute = `
	UPDATE routes SET
		profile = $3,
		graph_version = $4,
		distance_m = $5,
		duration_ms = $6,
		geom = $7,
		bbox = $8,
		details = $9,
		cache_key = $10,
		updated_at = now()
	WHERE id = $1 AND project_id = $2
	RETURNING *;
	`

	GetOperationalPoint = `
	SELECT op_id FROM operational_point WHERE op_id = $1
	`

	// FindSectionPath walks the undirected section_of_line graph between two
	// operational points and returns the section ids of the cheapest path by
	// summed sol_length. The recursive CTE enumerates simple paths only; the
	// NOT ... = ANY(path) guard prevents cycles.
	FindSectionPath = `
	WITH RECURSIVE edges AS (
		SELECT id, sol_op_start AS source, sol_op_end AS target, sol_length AS cost
		FROM section_of_line
		UNION ALL
		SELECT id, sol_op_end AS source, sol_op_start AS target, sol_length AS cost
		FROM section_of_line
	),
	walk AS (
		SELECT e.id, e.target AS op, ARRAY[e.id] AS path, e.cost AS total_cost
		FROM edges e
		WHERE e.source = $1
		UNION ALL
		SELECT e.id, e.target, w.path || e.id, w.total_cost + e.cost
		FROM walk w
		JOIN edges e ON e.source = w.op
		WHERE NOT e.id = ANY(w.path)
	)
	SELECT sid AS section_of_line_id
	FROM (
		SELECT path FROM walk WHERE op = $2 ORDER BY total_cost LIMIT 1
	) best,
	unnest(best.path) WITH ORDINALITY AS u(sid, seq)
	ORDER BY seq;
	`
)
