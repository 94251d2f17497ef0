package soundtrack

const playMutation = `
mutation Play($soundZone: ID!) {
  play(input: { soundZone: $soundZone }) {
    __typename
  }
}`

const pauseMutation = `
mutation Pause($soundZone: ID!) {
  pause(input: { soundZone: $soundZone }) {
    __typename
  }
}`

// assigns a playlist or schedule to a sound zone
const assignSourceMutation = `
mutation AssignSource($zoneId: ID!, $sourceId: ID!) {
  soundZoneAssignSource(input: { soundZones: [$zoneId], source: $sourceId }) {
    soundZones
  }
}`
