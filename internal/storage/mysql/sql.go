package mysql

// Row lock so the version read and the write are one step.
const selectVersionForUpdateSQL = `
SELECT version
FROM tenant_homepages
WHERE tenant_id = ?
FOR UPDATE
`

const upsertHomepageSQL = `
INSERT INTO tenant_homepages
  (tenant_id, version, doc)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  version    = VALUES(version),
  doc        = VALUES(doc),
  updated_at = CURRENT_TIMESTAMP
`

const getHomepageSQL = `
SELECT version, doc
FROM tenant_homepages
WHERE tenant_id = ?
`

const listTenantsSQL = `
SELECT tenant_id
FROM tenant_homepages
ORDER BY tenant_id
`
