package seed

// ParameterTemplate is one sub-criterion created under every copy of its area.
type ParameterTemplate struct {
	Code string
	Name string
}

// AreaTemplate is one evaluation area created under every program.
type AreaTemplate struct {
	Code       string
	Name       string
	Parameters []ParameterTemplate
}

// Areas is the fixed accreditation area template, in survey order.
var Areas = []AreaTemplate{
	{Code: "I", Name: "Vision, Mission, Goals and Objectives", Parameters: []ParameterTemplate{
		{"A", "Statement of Vision, Mission, Goals and Objectives"},
		{"B", "Dissemination and Acceptability"},
	}},
	{Code: "II", Name: "Faculty", Parameters: []ParameterTemplate{
		{"A", "Academic Qualifications and Professional Experience"},
		{"B", "Recruitment, Selection and Orientation"},
		{"C", "Faculty Adequacy and Loading"},
		{"D", "Rank and Tenure"},
		{"E", "Faculty Development"},
		{"F", "Professional Performance and Scholarly Works"},
		{"G", "Salaries, Fringe Benefits and Incentives"},
		{"H", "Professionalism"},
	}},
	{Code: "III", Name: "Curriculum and Instruction", Parameters: []ParameterTemplate{
		{"A", "Curriculum and Program of Studies"},
		{"B", "Instructional Processes, Methodologies and Learning Opportunities"},
		{"C", "Assessment of Academic Performance"},
		{"D", "Management of Learning"},
		{"E", "Graduation Requirements"},
		{"F", "Administrative Support for Effective Instruction"},
	}},
	{Code: "IV", Name: "Support to Students", Parameters: []ParameterTemplate{
		{"A", "Student Services Program"},
		{"B", "Student Welfare"},
		{"C", "Student Development"},
		{"D", "Institutional Student Programs and Services"},
	}},
	{Code: "V", Name: "Research", Parameters: []ParameterTemplate{
		{"A", "Priorities and Relevance"},
		{"B", "Funding and Other Resources"},
		{"C", "Implementation, Monitoring, Evaluation and Utilization of Research Outputs"},
		{"D", "Publication and Dissemination"},
	}},
	{Code: "VI", Name: "Extension and Community Involvement", Parameters: []ParameterTemplate{
		{"A", "Priorities and Relevance"},
		{"B", "Planning, Implementation, Monitoring and Evaluation"},
		{"C", "Funding and Other Resources"},
		{"D", "Community Involvement and Participation"},
	}},
	{Code: "VII", Name: "Library", Parameters: []ParameterTemplate{
		{"A", "Administration"},
		{"B", "Administrative Support"},
		{"C", "Staff"},
		{"D", "Collection Development, Organization and Preservation"},
		{"E", "Services and Utilization"},
		{"F", "Physical Set-up and Facilities"},
		{"G", "Financial Support"},
		{"H", "Linkages"},
	}},
	{Code: "VIII", Name: "Physical Plant and Facilities", Parameters: []ParameterTemplate{
		{"A", "Campus"},
		{"B", "Buildings"},
		{"C", "Classrooms"},
		{"D", "Offices and Staff Rooms"},
		{"E", "Assembly, Athletic and Sports Facilities"},
		{"F", "Medical and Dental Clinic"},
		{"G", "Student Center"},
		{"H", "Food Services"},
		{"I", "Accreditation Center"},
	}},
	{Code: "IX", Name: "Laboratories", Parameters: []ParameterTemplate{
		{"A", "Laboratories, Shops and Facilities"},
		{"B", "Equipment, Supplies and Materials"},
		{"C", "Maintenance"},
		{"D", "Special Provisions"},
	}},
	{Code: "X", Name: "Administration", Parameters: []ParameterTemplate{
		{"A", "Organization"},
		{"B", "Academic Administration"},
		{"C", "Student Administration"},
		{"D", "Financial Management"},
		{"E", "Supply Management"},
		{"F", "Records Management"},
		{"G", "Institutional Planning and Development"},
		{"H", "Performance of Administrative Personnel"},
	}},
}
