package view

const cardsTemplate = `{{#Cards}}
<div class="col-lg-4 col-md-6">
  <article class="blog-card">
    <div class="post-img">
      <img src="{{Image}}" alt="{{Title}}" class="img-fluid">
    </div>
    <div class="post-content">
      <div class="post-meta">
        <span class="post-date"><i class="bi bi-calendar"></i> {{Date}}</span>
        <span class="post-read-time"><i class="bi bi-clock"></i> {{ReadTime}}</span>
      </div>
      <h3 class="post-title"><a href="{{URL}}">{{Title}}</a></h3>
      {{#HasBadges}}
      <div class="post-categories mb-2">{{#Badges}}<span class="badge bg-primary me-1">{{.}}</span>{{/Badges}}</div>
      {{/HasBadges}}
      <p class="post-excerpt">{{Excerpt}}</p>
      <div class="post-footer">
        <a href="{{URL}}" class="read-more">Read More <i class="bi bi-arrow-right"></i></a>
      </div>
    </div>
  </article>
</div>
{{/Cards}}`

const paginationTemplate = `{{#Controls}}
<li class="page-item{{#Active}} active{{/Active}}{{#Disabled}} disabled{{/Disabled}}">
  {{#Gap}}<span class="page-link">...</span>{{/Gap}}{{^Gap}}<a class="page-link" href="#" data-page="{{Page}}">{{{Label}}}</a>{{/Gap}}
</li>
{{/Controls}}`

const errorTemplate = `<div class="col-12 text-center py-5">
  <i class="bi bi-exclamation-triangle" style="font-size: 3rem; color: #dc3545;"></i>
  <h3 class="mt-3">Unable to load blog posts</h3>
  <p>Please try again later or contact support if the problem persists.</p>
</div>`

const pageTemplate = `<!DOCTYPE html>
<html lang="{{Lang}}">
<head>
  <meta charset="utf-8">
  <title>{{Title}}</title>
</head>
<body>
<section id="blog" class="blog section">
  <div class="container">
    <div class="row mb-4">
      <div class="col-md-6">
        <input type="text" id="searchInput" class="form-control" placeholder="Search posts..." value="{{Search}}">
      </div>
      <div class="col-md-3">
        <select id="categoryFilter" class="form-select">
          {{#CategoryFilter}}<option value="{{Value}}"{{#Selected}} selected{{/Selected}}>{{Label}}</option>{{/CategoryFilter}}
        </select>
      </div>
      <div class="col-md-3">
        <select id="sortFilter" class="form-select">
          {{#SortFilter}}<option value="{{Value}}"{{#Selected}} selected{{/Selected}}>{{Label}}</option>{{/SortFilter}}
        </select>
      </div>
    </div>
    <div class="row gy-4" id="blogGrid">{{{Grid}}}</div>
    <div id="noResults" class="text-center py-5"{{^ShowNoResults}} style="display: none;"{{/ShowNoResults}}>
      <h3>No posts found</h3>
      <p>Try adjusting your search or filter criteria.</p>
    </div>
    <nav aria-label="Blog pagination">
      <ul class="pagination justify-content-center" id="pagination">{{{Pagination}}}</ul>
    </nav>
  </div>
</section>
</body>
</html>
`
