// Package segment groups cleaned paragraphs into labelled report
// sections. Paragraph titles (the text before the first colon) are
// matched against a keyword table covering the headings that appear
// in student reports; unmatched headings are collected separately so
// the table can be extended over time.
package segment

import (
	"strings"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// sectionKeywords maps a category label to the heading spellings that
// identify it. Matching is case-insensitive on the exact title.
var sectionKeywords = map[string][]string{
	"front_matter": {
		"Title Page", "Cover Page", "Front Matter", "Abstract Page",
		"Acknowledgement of Country", "Declaration", "Statement of Originality",
		"Academic Integrity", "Plagiarism Statement",
	},
	"toc_lists": {
		"Table of Contents", "Contents", "List of Figures", "List of Tables",
		"List of Abbreviations", "Acronyms", "Nomenclature", "Glossary",
	},
	"summary": {
		"Abstract", "Summary", "Executive Summary", "Overview",
		"Key Insights", "Key Findings", "Highlights",
	},
	"introduction": {
		"Introduction", "Background", "Context", "Motivation",
		"Problem Statement", "Research Questions", "Hypothesis",
		"Aim", "Aims and Objectives", "Contribution", "Significance",
	},
	"related_work": {
		"Literature Review", "Related Work", "Prior Work",
		"State of the Art", "Background and Related Work",
	},
	"objectives_scope": {
		"Objectives", "Goals", "Scope", "Out of Scope",
		"Mission", "Vision", "Success Criteria", "Acceptance Criteria",
	},
	"requirements_spec": {
		"Requirements", "Specifications", "System Requirements",
		"Functional Requirements", "Non-Functional Requirements",
		"Use Cases", "User Stories", "Constraints", "Assumptions",
	},
	"methodology_design": {
		"Method", "Methods", "Methodology", "Approach", "Framework",
		"Design", "System Design", "Architecture", "Algorithm",
		"Implementation", "Workflow", "Pipeline", "Experimental Setup",
		"Materials and Methods", "Data Collection", "Study Design",
	},
	"data_materials": {
		"Data", "Dataset", "Data Sources", "Data Preparation",
		"Preprocessing", "Feature Engineering", "Materials",
		"Software and Tools", "Hardware", "Bill of Materials", "BOM",
	},
	"experiments_evaluation": {
		"Experiment", "Experiments", "Experimental Results",
		"Evaluation", "Testing", "Validation", "User Study",
		"Study Protocol", "Metrics", "Evaluation Metrics", "Baselines",
		"Ablation Study", "Error Analysis", "Case Study", "Benchmarking", "Performance",
	},
	"results_analysis": {
		"Results", "Findings", "Observations", "Analysis",
		"Statistical Analysis", "Qualitative Analysis",
		"Quantitative Analysis", "Interpretation",
	},
	"discussion_insights": {
		"Discussion", "Discussion and Analysis", "Insights",
		"Implications", "Managerial Implications", "Practical Implications",
		"Lessons Learned",
	},
	"threats_limitations": {
		"Threats to Validity", "Internal Validity", "External Validity",
		"Limitations", "Risks", "Risk Assessment", "Mitigation",
		"Assumptions and Limitations",
	},
	"business_analysis": {
		"Market Analysis", "Competitor Analysis", "SWOT Analysis",
		"PEST", "PESTLE", "Stakeholder Analysis", "Cost-Benefit Analysis",
		"ROI Analysis", "Feasibility Study",
	},
	"project_management": {
		"Project Plan", "Project Management", "Timeline", "Roadmap",
		"Milestones", "Work Breakdown Structure", "WBS",
		"Resource Plan", "Budget", "Risk Management", "Change Management",
		"Communication Plan", "Deployment Plan", "Rollout Plan", "Go-To-Market",
	},
	"conclusion_future": {
		"Conclusion", "Conclusions", "Final Remarks",
		"Summary of Findings", "Recommendations", "Proposed Actions",
		"Next Steps", "Future Work", "Outlook",
	},
	"ethics_compliance": {
		"Ethics", "Ethical Considerations", "Ethics Approval",
		"Informed Consent", "Data Privacy", "Data Protection",
		"Compliance", "Regulatory Compliance", "Standards Compliance",
	},
	"meta_ack": {
		"Acknowledgements", "Acknowledgments", "Funding",
		"Funding Statement", "Grant Information", "Author Contributions",
		"Conflict of Interest", "Competing Interests",
		"Data Availability", "Availability of Data and Materials",
		"Reproducibility", "Open Science Statement",
	},
	"references_appendix": {
		"References", "Bibliography", "Works Cited", "Citations",
		"Notes", "Footnotes", "Endnotes", "Appendix",
		"Appendices", "Annex", "Annexes", "Supplementary Material",
		"Supporting Information", "Attachments",
	},
}

// Section is a group of paragraphs sharing one category label, in
// document order.
type Section struct {
	// Title is the first heading that opened the section, lower-cased.
	Title string `json:"section"`

	// Category is the label from the keyword table.
	Category string `json:"category"`

	// ParagraphIDs are the para_ids assigned to this section.
	ParagraphIDs []int `json:"para_ids"`

	// Bodies holds each paragraph's text with the heading prefix
	// stripped.
	Bodies []string `json:"full_text"`
}

// UnknownHeading records a heading the keyword table did not match.
type UnknownHeading struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Summary is the categorised view of a document's paragraphs.
type Summary struct {
	Sections        []Section        `json:"sections"`
	UnknownHeadings []UnknownHeading `json:"unknown_headings"`
}

// Categoriser assigns paragraphs to sections by their heading title.
type Categoriser struct {
	labels map[string]string
}

// New builds a categoriser from the built-in keyword table.
func New() *Categoriser {
	labels := make(map[string]string)
	for label, kws := range sectionKeywords {
		for _, kw := range kws {
			labels[strings.ToLower(kw)] = label
		}
	}
	return &Categoriser{labels: labels}
}

// Categorise extracts the title of a paragraph (the text before the
// first colon) and looks up its category. The second return is empty
// when the title is unknown.
func (c *Categoriser) Categorise(paragraph string) (title, category string) {
	if paragraph == "" {
		return "", ""
	}
	title = paragraph
	if idx := strings.Index(paragraph, ":"); idx >= 0 {
		title = paragraph[:idx]
	}
	title = strings.ToLower(strings.TrimSpace(title))
	return title, c.labels[title]
}

// Summarise groups paragraphs into sections by category. Paragraphs
// with the same category merge into one section regardless of where
// they appear; headings outside the keyword table are tallied in
// UnknownHeadings.
func (c *Categoriser) Summarise(paragraphs []domain.Paragraph) Summary {
	var summary Summary
	byCategory := make(map[string]int)
	unknownCounts := make(map[string]int)
	var unknownOrder []string

	for _, p := range paragraphs {
		title, category := c.Categorise(p.Text)
		if category == "" {
			if title != "" {
				if _, seen := unknownCounts[title]; !seen {
					unknownOrder = append(unknownOrder, title)
				}
				unknownCounts[title]++
			}
			continue
		}

		idx, ok := byCategory[category]
		if !ok {
			idx = len(summary.Sections)
			byCategory[category] = idx
			summary.Sections = append(summary.Sections, Section{
				Title:    title,
				Category: category,
			})
		}
		s := &summary.Sections[idx]
		s.ParagraphIDs = append(s.ParagraphIDs, p.ID)
		s.Bodies = append(s.Bodies, stripHeading(p.Text))
	}

	for _, title := range unknownOrder {
		summary.UnknownHeadings = append(summary.UnknownHeadings, UnknownHeading{
			Title: title,
			Count: unknownCounts[title],
		})
	}
	return summary
}

// stripHeading removes the leading "title:" prefix from a paragraph.
func stripHeading(paragraph string) string {
	if idx := strings.Index(paragraph, ":"); idx >= 0 {
		return strings.TrimSpace(paragraph[idx+1:])
	}
	return paragraph
}
