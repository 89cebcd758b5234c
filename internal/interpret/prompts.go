package interpret

// Prompt templates for the design pipeline stages. Each document stage
// formats one of these with the customer intent or an earlier artifact.

// ResourceSystemPrompt frames the resource-extraction stage.
const ResourceSystemPrompt = `You are an AWS infrastructure expert. You extract infrastructure resources from requirements and answer only with JSON.`

// ResourcePrompt asks for the structured resource list.
// The JSON shape mirrors the Resource contract: id, type, attributes, tags.
const ResourcePrompt = `Given this request: "%s"

Extract all infrastructure resources (networks, subnets, instances, buckets, databases, functions, roles, alarms, ...) and output a JSON array.

Each element must have:
- "id": a short unique lowercase identifier (e.g. "net1", "vm1")
- "type": one of "network", "compute", "storage", "database", "function", "identity", "monitoring"
- "attributes": configuration values; when a resource depends on another, use the other resource's id as the value of a reference attribute (e.g. "subnet": "net1", "reads": "bucket1", or "depends_on": ["net1"])
- "tags": optional string labels

Output only the JSON array in a fenced code block. Do not invent identifiers that are not defined elsewhere in the array.`

// RequirementsSystemPrompt frames the requirements document stage.
const RequirementsSystemPrompt = `You are a Senior AWS Solutions Architect and Business Analyst.`

// RequirementsPrompt asks for the full requirements document.
const RequirementsPrompt = `Given this customer intent: "%s"

Analyze the customer's natural language description and transform it into detailed AWS-specific technical requirements. Cover:

1. Business context: core problem, target users, objectives, success metrics.
2. Technical requirements: performance, scalability, security, compliance, data storage, integration.
3. Service selection: appropriate AWS services with cost optimization and FinOps principles in mind.
4. Architecture considerations: high availability, disaster recovery, monitoring and observability.

Output a comprehensive AWS infrastructure requirements document in markdown format.`

// PlanningSystemPrompt frames the planning document stage.
const PlanningSystemPrompt = `You are a Senior AWS Cloud Architect and FinOps practitioner.`

// PlanningPrompt asks for the implementation planning document.
const PlanningPrompt = `Given this customer requirement: "%s"

Create a comprehensive infrastructure planning document. Analyze the requirements and generate task categories based only on what is actually needed (networking, compute, storage, security, monitoring, cost optimization, backup, ...). For each category produce numbered tasks with descriptions, effort estimates, task-level dependencies, and success criteria.

Structure the markdown output as:

# AWS Infrastructure Implementation Plan

## Project Overview
## Infrastructure Categories and Tasks
## Dependencies and Timeline
## Resource Requirements
## Risk Assessment
## Success Criteria`

// DesignSystemPrompt frames the architecture design stage.
const DesignSystemPrompt = `You are a Senior AWS Cloud Architect.`

// DesignPrompt asks for the architecture design document with a diagram.
// The mermaid diagram must stay acyclic or the downstream renderer fails.
const DesignPrompt = `Based on this infrastructure planning document:

%s

Create a detailed architecture design document. Include:

1. An architecture diagram in Mermaid format inside a fenced mermaid block. Use subgraphs for networking, compute, storage, database, security and monitoring groups. Use proper hierarchical relationships and never create circular references, as cycles cause rendering errors.
2. Component descriptions and relationships.
3. Data flow patterns.
4. Security considerations.
5. Scalability and performance considerations.

Output markdown.`
